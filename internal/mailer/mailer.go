// Package mailer sends the transactional and digest emails over SMTP.
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strconv"

	gomail "gopkg.in/gomail.v2"

	"habitude/internal/services"
)

type Mailer struct {
	dialer      *gomail.Dialer
	from        string
	frontendURL string
}

// FromEnv builds a mailer from the SMTP_* variables. It returns nil when
// SMTP_HOST is unset so callers can treat email as disabled in dev.
func FromEnv() *Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil
	}
	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
		port = p
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USER")
	}
	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		frontend = "http://localhost:5173"
	}
	return &Mailer{
		dialer:      gomail.NewDialer(host, port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASS")),
		from:        from,
		frontendURL: frontend,
	}
}

var resetTemplate = template.Must(template.New("reset").Parse(`
<div style="font-family: sans-serif; max-width: 520px; margin: 0 auto;">
  <h2>Réinitialisation de votre mot de passe</h2>
  <p>Bonjour {{.Name}},</p>
  <p>Vous avez demandé la réinitialisation de votre mot de passe. Cliquez sur le
  bouton ci-dessous pour en choisir un nouveau. Ce lien expire dans une heure.</p>
  <p><a href="{{.Link}}" style="display:inline-block;padding:12px 24px;background:#4f46e5;color:#fff;border-radius:6px;text-decoration:none;">Réinitialiser mon mot de passe</a></p>
  <p>Si vous n'êtes pas à l'origine de cette demande, ignorez cet email.</p>
</div>`))

var dailyTemplate = template.Must(template.New("daily").Parse(`
<div style="font-family: sans-serif; max-width: 520px; margin: 0 auto;">
  <h2>C'est l'heure de vos habitudes !</h2>
  <p>Bonjour {{.Name}},</p>
  {{if gt .Remaining 0}}
  <p>Il vous reste <strong>{{.Remaining}}</strong> habitude(s) à compléter aujourd'hui.
  Quelques minutes suffisent pour garder vos streaks en vie.</p>
  {{else}}
  <p>Toutes vos habitudes du jour sont complétées. Bravo !</p>
  {{end}}
  <p><a href="{{.Link}}">Ouvrir l'application</a></p>
</div>`))

var weeklyTemplate = template.Must(template.New("weekly").Parse(`
<div style="font-family: sans-serif; max-width: 520px; margin: 0 auto;">
  <h2>Votre bilan de la semaine</h2>
  <p>Bonjour {{.Name}},</p>
  <ul>
    <li>Taux de complétion : <strong>{{.Digest.CompletionRate}}%</strong></li>
    <li>Jours actifs : <strong>{{.Digest.CompletedDays}}/7</strong></li>
    <li>Meilleur streak : <strong>{{.Digest.BestStreak}} jours</strong></li>
  </ul>
  {{if .Digest.TopHabits}}
  <p>Vos meilleures habitudes :</p>
  <ol>
    {{range .Digest.TopHabits}}<li>{{.Name}} ({{.Rate}}%)</li>{{end}}
  </ol>
  {{end}}
  <p><a href="{{.Link}}">Voir le détail</a></p>
</div>`))

var monthlyTemplate = template.Must(template.New("monthly").Parse(`
<div style="font-family: sans-serif; max-width: 520px; margin: 0 auto;">
  <h2>Votre bilan de {{.Digest.MonthName}}</h2>
  <p>Bonjour {{.Name}},</p>
  <ul>
    <li>Habitudes suivies : <strong>{{.Digest.TotalHabits}}</strong></li>
    <li>Taux de complétion : <strong>{{.Digest.CompletionRate}}%</strong></li>
    <li>Jours actifs : <strong>{{.Digest.CompletedDays}}/{{.Digest.TotalDaysInMonth}}</strong></li>
    <li>Meilleur streak : <strong>{{.Digest.BestStreak}} jours</strong></li>
    {{if gt .Digest.ImprovementFromLastMonth 0}}
    <li>Progression : <strong>+{{.Digest.ImprovementFromLastMonth}}%</strong> par rapport au mois précédent</li>
    {{else if lt .Digest.ImprovementFromLastMonth 0}}
    <li>Évolution : <strong>{{.Digest.ImprovementFromLastMonth}}%</strong> par rapport au mois précédent</li>
    {{end}}
  </ul>
  {{if .Digest.TopHabits}}
  <p>Vos meilleures habitudes du mois :</p>
  <ol>
    {{range .Digest.TopHabits}}<li>{{.Name}} ({{.Rate}}%)</li>{{end}}
  </ol>
  {{end}}
  <p><a href="{{.Link}}">Voir le détail</a></p>
</div>`))

func (m *Mailer) SendPasswordReset(to, name, token string) error {
	link := m.frontendURL + "/reset-password?token=" + token
	return m.send(to, "Réinitialisation de votre mot de passe", resetTemplate, map[string]any{
		"Name": name,
		"Link": link,
	})
}

func (m *Mailer) SendDailyReminder(to, name string, remaining int) error {
	return m.send(to, "Vos habitudes vous attendent", dailyTemplate, map[string]any{
		"Name":      name,
		"Remaining": remaining,
		"Link":      m.frontendURL,
	})
}

func (m *Mailer) SendWeeklyDigest(to, name string, digest services.WeeklyDigest) error {
	return m.send(to, "Votre bilan hebdomadaire", weeklyTemplate, map[string]any{
		"Name":   name,
		"Digest": digest,
		"Link":   m.frontendURL + "/stats",
	})
}

func (m *Mailer) SendMonthlyDigest(to, name string, digest services.MonthlyDigest) error {
	subject := fmt.Sprintf("Votre bilan de %s", digest.MonthName)
	return m.send(to, subject, monthlyTemplate, map[string]any{
		"Name":   name,
		"Digest": digest,
		"Link":   m.frontendURL + "/stats",
	})
}

func (m *Mailer) send(to, subject string, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("rendu du template email: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", buf.String())
	return m.dialer.DialAndSend(msg)
}

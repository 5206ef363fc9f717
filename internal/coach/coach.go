// Package coach talks to the Anthropic messages API to turn a user's week
// into concrete habit advice.
package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
	model          = "claude-sonnet-4-20250514"
	maxTokens      = 1000
)

// HabitSummary is the per-habit snapshot fed to the model.
type HabitSummary struct {
	Name              string
	Description       string
	Category          string
	Difficulty        string
	Streak            int
	BestStreak        int
	CompletedThisWeek int
	CompletionRate    int
}

// Analysis is the structured verdict the model returns.
type Analysis struct {
	Improve struct {
		Habit      string `json:"habit"`
		Reason     string `json:"reason"`
		Suggestion string `json:"suggestion"`
	} `json:"improve"`
	Replace struct {
		Habit       string `json:"habit"`
		Reason      string `json:"reason"`
		NewHabit    string `json:"newHabit"`
		Category    string `json:"category"`
		Difficulty  string `json:"difficulty"`
		Description string `json:"description"`
	} `json:"replace"`
	Motivation string `json:"motivation"`
}

type Analyzer struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewAnalyzer(apiKey string) *Analyzer {
	return &Analyzer{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewAnalyzerWithBaseURL exists for tests that stand in a fake endpoint.
func NewAnalyzerWithBaseURL(apiKey, baseURL string) *Analyzer {
	a := NewAnalyzer(apiKey)
	a.baseURL = baseURL
	return a
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze sends the weekly summary and parses the model's JSON answer.
func (a *Analyzer) Analyze(ctx context.Context, habits []HabitSummary) (Analysis, error) {
	var analysis Analysis
	if a.apiKey == "" {
		return analysis, fmt.Errorf("clé API Claude manquante")
	}

	body, err := json.Marshal(messagesRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages:  []message{{Role: "user", Content: buildPrompt(habits)}},
	})
	if err != nil {
		return analysis, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return analysis, err
	}
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return analysis, fmt.Errorf("appel API Claude: %w", err)
	}
	defer resp.Body.Close()

	var out messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return analysis, fmt.Errorf("réponse API Claude illisible: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := "Unknown"
		if out.Error != nil {
			msg = out.Error.Message
		}
		return analysis, fmt.Errorf("erreur API Claude: %s", msg)
	}
	if len(out.Content) == 0 || out.Content[0].Text == "" {
		return analysis, fmt.Errorf("réponse vide de l'API Claude")
	}

	// The model is told to emit bare JSON but occasionally wraps it in
	// markdown fences anyway.
	text := strings.TrimSpace(out.Content[0].Text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &analysis); err != nil {
		return analysis, fmt.Errorf("analyse JSON invalide: %w", err)
	}
	return analysis, nil
}

func buildPrompt(habits []HabitSummary) string {
	var sb strings.Builder
	for _, h := range habits {
		fmt.Fprintf(&sb, "- %s (%s, difficulté: %s)\n", h.Name, h.Category, h.Difficulty)
		if h.Description != "" {
			fmt.Fprintf(&sb, "  Description: %s\n", h.Description)
		}
		fmt.Fprintf(&sb, "  Streak actuel: %d jours\n", h.Streak)
		fmt.Fprintf(&sb, "  Record: %d jours\n", h.BestStreak)
		fmt.Fprintf(&sb, "  Complétée %d jours cette semaine (%d%%)\n", h.CompletedThisWeek, h.CompletionRate)
	}

	return fmt.Sprintf(`Tu es un coach personnel expert en développement d'habitudes.

CONTEXTE IMPORTANT : L'utilisateur est limité à 5 habitudes maximum. Cette limite existe pour favoriser
la concentration sur l'essentiel et éviter la dispersion.

Voici les habitudes actuelles de l'utilisateur (%d/5) :

%s
STRUCTURE D'UNE HABITUDE :
- Catégorie : Sport / Détente / Apprentissage / Santé / Travail / Social
- Difficulté : easy (Facile) / medium (Moyen) / hard (Difficile)
- Streak actuel : nombre de jours consécutifs réussis (se réinitialise si un jour manqué)
- Taux de complétion : jours complétés depuis le début de la semaine en cours (lundi-dimanche)

IMPORTANT : Le taux de complétion porte sur la SEMAINE EN COURS uniquement, pas sur 7 jours glissants.
Ne pénalise pas les utilisateurs en début de semaine !

RÈGLES D'ANALYSE :
- Si une habitude "hard" a un faible taux (<40%%) ET un faible streak (<3 jours), suggère de la simplifier
- Si une habitude "easy" a un excellent taux (>90%%) ET un bon streak (>7 jours), suggère de la rendre plus ambitieuse
- Si l'utilisateur a moins de 5 habitudes performantes, suggère d'en ajouter une dans une catégorie manquante
- Si l'utilisateur a 5 habitudes, suggère de REMPLACER celle qui performe le moins bien
- Privilégie la QUALITÉ à la QUANTITÉ

Réponds UNIQUEMENT avec un objet JSON valide (sans backticks markdown) dans ce format :
{
  "improve": {"habit": "nom exact", "reason": "...", "suggestion": "..."},
  "replace": {"habit": "nom exact ou 'none'", "reason": "...", "newHabit": "...", "category": "...", "difficulty": "...", "description": "..."},
  "motivation": "message motivant basé sur les progrès réels"
}`, len(habits), sb.String())
}

package telegram

import (
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"portfolioOptimizer/internal/openai"
	"portfolioOptimizer/internal/optimizer"
)

type Bot struct {
	api *tgbotapi.BotAPI
	h   *Handlers
}

// NewBot registers the webhook and wires handlers. openAIKey may be empty,
// in which case replies carry no commentary.
func NewBot(token, webhookURL string, svc *optimizer.Service, openAIKey string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	// set webhook
	webhook, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, err
	}
	if _, err := api.Request(webhook); err != nil {
		return nil, err
	}
	log.Info().Str("component", "telegram").Str("url", webhookURL).Msg("webhook set")

	var commentator Commentator
	if openAIKey != "" {
		commentator = openai.NewCommentator(openAIKey)
	}
	h := NewHandlers(api, svc, commentator)

	return &Bot{api: api, h: h}, nil
}

// Webhook HTTP handler (registered at /telegram/webhook)
func (b *Bot) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "bad update", http.StatusBadRequest)
		return
	}
	if update.Message != nil {
		log.Debug().Str("component", "telegram").
			Int64("chat_id", update.Message.Chat.ID).
			Str("text", update.Message.Text).
			Msg("webhook message")
		go b.h.HandleMessage(update.Message)
	} else {
		log.Debug().Str("component", "telegram").Msg("non-message update received")
	}
	w.WriteHeader(http.StatusOK)
}

package telegram

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"portfolioOptimizer/internal/finance"
	"portfolioOptimizer/internal/optimizer"
)

var (
	// /optimize S1 S2 ... [START END | window]
	reOptimize = regexp.MustCompile(`^/optimize(?:@[\w_]+)?\s+\S`)
	// /history [N]
	reHistory = regexp.MustCompile(`^/history(?:@[\w_]+)?(?:\s+(\d+))?$`)
	// /help
	reHelp = regexp.MustCompile(`^/(help|start)(?:@[\w_]+)?$`)
)

// Commentator adds an optional narrative to a finished search.
type Commentator interface {
	Describe(ctx context.Context, report string) (string, error)
}

// sender is the slice of the Telegram API the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Handlers struct {
	api     sender
	svc     *optimizer.Service
	comment Commentator
	now     func() time.Time
	log     zerolog.Logger
}

func NewHandlers(api sender, svc *optimizer.Service, comment Commentator) *Handlers {
	return &Handlers{
		api:     api,
		svc:     svc,
		comment: comment,
		now:     time.Now,
		log:     log.With().Str("component", "telegram").Logger(),
	}
}

func (h *Handlers) HandleMessage(m *tgbotapi.Message) {
	txt := strings.TrimSpace(m.Text)
	switch {
	case reOptimize.MatchString(txt):
		req, err := finance.ParseOptimizeCommand(txt, h.now())
		if err != nil {
			h.reply(m.Chat.ID, "Usage: /optimize S1 S2 ... [YYYY-MM-DD YYYY-MM-DD | 6m | 1y]\n"+err.Error())
			return
		}
		h.reply(m.Chat.ID, fmt.Sprintf("Searching %s from %s to %s…",
			strings.Join(req.Symbols, ", "), finance.FormatDay(req.Start), finance.FormatDay(req.End)))
		h.handleOptimize(m.Chat.ID, req)

	case reHistory.MatchString(txt):
		limit := 5
		if g := reHistory.FindStringSubmatch(txt); len(g) == 2 && g[1] != "" {
			fmt.Sscanf(g[1], "%d", &limit)
			limit = min(max(limit, 1), 20)
		}
		h.handleHistory(m.Chat.ID, limit)

	case reHelp.MatchString(txt):
		h.handleHelp(m.Chat.ID)
	}
}

func (h *Handlers) handleOptimize(chatID int64, req finance.SearchRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := h.svc.Run(ctx, req, "", nil)
	if err != nil {
		h.log.Warn().Err(err).Strs("symbols", req.Symbols).Msg("optimize failed")
		h.reply(chatID, "Optimize failed: "+describeError(err))
		return
	}
	text := optimizer.FormatReport(report)

	img, err := finance.RenderComparison(report.Comparison)
	if err != nil {
		h.log.Warn().Err(err).Msg("chart render failed")
		h.reply(chatID, text)
	} else {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: strings.Join(report.Result.Symbols, "_") + "_portfolio.png", Bytes: img})
		photo.Caption = text
		h.send(photo)
	}

	if h.comment != nil {
		out, err := h.comment.Describe(ctx, text)
		if err != nil {
			h.log.Warn().Err(err).Msg("commentary failed")
			return
		}
		// plain text: model output is not guaranteed to be valid Markdown
		h.reply(chatID, out)
	}
}

func (h *Handlers) handleHistory(chatID int64, limit int) {
	recs, err := h.svc.Recent(limit)
	if err != nil {
		h.reply(chatID, "History failed: "+err.Error())
		return
	}
	if len(recs) == 0 {
		h.reply(chatID, "No searches recorded yet.")
		return
	}
	var b strings.Builder
	for _, r := range recs {
		fmt.Fprintf(&b, "%s %s→%s %s weights=%v sharpe=%.3f\n",
			r.CreatedAt.Format("Jan 02 15:04"), r.StartDay, r.EndDay, strings.Join(r.Symbols, ","), r.Weights, r.Sharpe)
	}
	h.reply(chatID, b.String())
}

func (h *Handlers) handleHelp(chatID int64) {
	help := "Commands\n\n" +
		"- /optimize S1 S2 ... [YYYY-MM-DD YYYY-MM-DD] - Best Sharpe allocation on a 10% weight grid (default: last year)\n" +
		"- /optimize S1 S2 ... [30d|12w|6m|2y] - Same, over a trailing window (lower-case unit; 3M is a ticker)\n" +
		"- /history [N] - Most recent searches (default 5, max 20)\n" +
		"\nUp to 6 symbols; each extra symbol multiplies the search by 11."
	h.reply(chatID, help)
}

// describeError turns search failures into something a chat user can act on.
func describeError(err error) string {
	switch {
	case errors.Is(err, finance.ErrBasketTooLarge):
		return "too many symbols for a full grid search"
	case errors.Is(err, finance.ErrDegenerateSeries):
		return "prices did not move for some allocation, Sharpe ratio undefined"
	case errors.Is(err, finance.ErrDataGap):
		return "no price data for that date range"
	case errors.Is(err, finance.ErrNoLegalAllocation):
		return "no legal allocation"
	}
	return err.Error()
}

func (h *Handlers) reply(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

func (h *Handlers) send(c tgbotapi.Chattable) {
	if _, err := h.api.Send(c); err != nil {
		h.log.Warn().Err(err).Msg("send failed")
	}
}

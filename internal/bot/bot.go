// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package bot implements the core logic of the filmgate bot.
//
// It routes every inbound Telegram update to the right handler, enforces the
// channel-membership gate on catalog access and the operator privilege on
// ingestion, advances per-user multi-step dialogues and renders the paginated
// catalog menu.
package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"filmgate/internal/logger"
	"filmgate/internal/store"
	"filmgate/internal/tg"
	"filmgate/internal/web"
)

// User-facing strings and button labels. Button labels double as routing keys:
// a reply-keyboard press arrives as a plain message with the label as text.
const (
	btnAddVideo     = "Add video"
	btnListVideos   = "List videos"
	btnAddOperator  = "Add operator"
	btnJoinChannel  = "Join the channel"
	btnCheckMember  = "Check membership"
	btnPrevPage     = "« Previous"
	btnNextPage     = "Next »"

	msgJoinFirst      = "To watch videos, join the channel first:"
	msgMember         = "You are a member of the channel."
	msgNotMemberToast = "You are not a member yet!"
	msgCatalogHeader  = "Available videos:"
	msgListHeader     = "Latest videos:"
	msgNoVideos       = "No videos available yet."
	msgVideoNotFound  = "Video not found."
	msgAccessDenied   = "You don't have access to this."
	msgOwnerOnly      = "Only the bot owner can add operators."
	msgAdminPanel     = "Welcome to the admin panel:"
	msgAskTitle       = "Send the title of the video:"
	msgAskVideo       = "Now send the video file:"
	msgAskOperator    = "Send the numeric ID or the username of the new operator:"
	msgInvalidInput   = "Invalid input. Send a numeric ID or a username."
	msgFailure        = "Something went wrong. Please try again."
	msgVideoSaved     = "Video saved.\n\nDirect link:\n%s"
	msgOperatorAdded  = "Operator %s added."

	defaultTitle = "Untitled"

	callbackCheckMembership = "check_membership"
)

// Bot handles Telegram updates.
type Bot struct {
	tgc      *tg.Client
	store    store.Store
	sessions Sessions
	logf     logger.Logf

	secret      string
	owner       int64
	channel     string // with the leading @
	botUsername string
}

// Opts is the options for creating a new [Bot].
type Opts struct {
	// Client is the Telegram Bot API client.
	Client *tg.Client
	// Store is the persistent catalog and operator store.
	Store store.Store
	// Sessions is the per-user dialogue state table.
	Sessions Sessions
	// Logf is the logger. If nil, log.Printf is used.
	Logf logger.Logf
	// Secret is the Telegram webhook secret token.
	Secret string
	// Owner is the Telegram ID of the bot owner.
	Owner int64
	// Channel is the channel whose members may watch videos, e.g. "@movies".
	Channel string
	// BotUsername is the bot's username, used to build deep links.
	BotUsername string
}

// New creates a new [Bot].
func New(opts Opts) *Bot {
	b := &Bot{
		tgc:         opts.Client,
		store:       opts.Store,
		sessions:    opts.Sessions,
		logf:        opts.Logf,
		secret:      opts.Secret,
		owner:       opts.Owner,
		channel:     opts.Channel,
		botUsername: opts.BotUsername,
	}
	if b.logf == nil {
		b.logf = log.Printf
	}
	if b.channel != "" && !strings.HasPrefix(b.channel, "@") {
		b.channel = "@" + b.channel
	}
	return b
}

// HandleWebhook handles a Telegram webhook request.
//
// The only thing the platform needs back is an acknowledgement: handler errors
// are logged and swallowed so that one failing event neither triggers
// redelivery nor affects other users' events.
func (b *Bot) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Telegram-Bot-Api-Secret-Token") != b.secret {
		web.RespondJSONError(b.logf, w, web.ErrNotFound)
		return
	}

	var upd tg.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		web.RespondJSONError(b.logf, w, fmt.Errorf("%w: %v", web.ErrBadRequest, err))
		return
	}

	if err := b.HandleUpdate(r.Context(), &upd); err != nil {
		b.logf("Handling update %d failed: %v", upd.ID, err)
	}

	web.RespondJSON(w, map[string]string{"status": "ok"})
}

// HandleUpdate routes a single update. Updates that match no transition are
// silently ignored.
func (b *Bot) HandleUpdate(ctx context.Context, upd *tg.Update) error {
	switch {
	case upd.Message != nil:
		return b.handleMessage(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		return b.handleCallback(ctx, upd.CallbackQuery)
	}
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, m *tg.Message) error {
	if m.From == nil {
		// Channel posts and service messages carry no sender.
		return nil
	}
	chatID := m.Chat.ID

	if cmd, arg, ok := command(m.Text); ok {
		switch cmd {
		case "start":
			// A top-level command abandons any open dialogue silently.
			b.sessions.Clear(m.From.ID)
			return b.handleStart(ctx, chatID, m.From, arg)
		case "admin":
			b.sessions.Clear(m.From.ID)
			return b.handleAdmin(ctx, chatID, m.From)
		case "addoperator":
			b.sessions.Clear(m.From.ID)
			return b.handleAddOperatorCommand(ctx, chatID, m.From, arg)
		}
		// Unrecognized commands fall through: mid-dialogue they are just text.
	}

	// Everything below is operator-only, dialogue steps included: checking on
	// every event means a session can't carry a non-operator into a privileged
	// transition, no matter how events are reordered.
	if !b.isOperator(ctx, m.From) {
		return nil
	}

	switch m.Text {
	case btnAddVideo:
		b.sessions.Set(m.From.ID, Session{Step: StepAwaitingTitle})
		return b.sendText(ctx, chatID, msgAskTitle)
	case btnAddOperator:
		b.sessions.Set(m.From.ID, Session{Step: StepAwaitingOperator})
		return b.sendText(ctx, chatID, msgAskOperator)
	case btnListVideos:
		return b.sendRecentTitles(ctx, chatID)
	}

	sess, open := b.sessions.Get(m.From.ID)
	switch {
	case open && sess.Step == StepAwaitingTitle && m.Text != "":
		b.sessions.Set(m.From.ID, Session{Step: StepAwaitingVideo, Title: m.Text})
		return b.sendText(ctx, chatID, msgAskVideo)

	case open && sess.Step == StepAwaitingVideo && m.Video != nil:
		b.sessions.Clear(m.From.ID)
		return b.saveVideo(ctx, chatID, sess.Title, m.Video.FileID)

	case open && sess.Step == StepAwaitingOperator && m.Text != "":
		// The step is spent even if validation fails; the operator restarts
		// the dialogue to retry.
		b.sessions.Clear(m.From.ID)
		return b.finishAddOperator(ctx, chatID, m.Text)

	case !open && m.Video != nil:
		// A stray video from an operator is a direct submission: the caption
		// (or a placeholder) becomes the title.
		title := m.Caption
		if title == "" {
			title = defaultTitle
		}
		return b.saveVideo(ctx, chatID, title, m.Video.FileID)
	}

	return nil
}

func (b *Bot) handleStart(ctx context.Context, chatID int64, from *tg.User, arg string) error {
	if !b.subscribed(ctx, from.ID) {
		return b.sendJoinPrompt(ctx, chatID)
	}
	if id, ok := strings.CutPrefix(arg, "video_"); ok {
		return b.sendVideoByID(ctx, chatID, id)
	}
	return b.sendCatalog(ctx, chatID, 0, 0)
}

func (b *Bot) handleAdmin(ctx context.Context, chatID int64, from *tg.User) error {
	if !b.isOperator(ctx, from) {
		return b.sendText(ctx, chatID, msgAccessDenied)
	}
	_, err := b.tgc.SendMessage(ctx, tg.SendMessageParams{
		ChatID: chatID,
		Text:   msgAdminPanel,
		ReplyMarkup: &tg.ReplyKeyboardMarkup{
			Keyboard: [][]tg.KeyboardButton{
				{{Text: btnAddVideo}, {Text: btnListVideos}},
				{{Text: btnAddOperator}},
			},
			ResizeKeyboard:  true,
			OneTimeKeyboard: true,
		},
	})
	return err
}

func (b *Bot) handleAddOperatorCommand(ctx context.Context, chatID int64, from *tg.User, arg string) error {
	if from.ID != b.owner {
		return b.sendText(ctx, chatID, msgOwnerOnly)
	}
	if arg == "" {
		return b.sendText(ctx, chatID, msgAskOperator)
	}
	return b.finishAddOperator(ctx, chatID, arg)
}

func (b *Bot) handleCallback(ctx context.Context, q *tg.CallbackQuery) error {
	if q.From == nil || q.Message == nil {
		// The originating message is too old to act on.
		return nil
	}
	chatID := q.Message.Chat.ID

	switch {
	case q.Data == callbackCheckMembership:
		if !b.subscribed(ctx, q.From.ID) {
			return b.tgc.AnswerCallbackQuery(ctx, q.ID, msgNotMemberToast)
		}
		if err := b.tgc.EditMessageText(ctx, tg.EditMessageTextParams{
			ChatID:    chatID,
			MessageID: q.Message.MessageID,
			Text:      msgMember,
		}); err != nil {
			return err
		}
		return b.sendCatalog(ctx, chatID, 0, 0)

	case strings.HasPrefix(q.Data, "page_"):
		page, err := strconv.Atoi(strings.TrimPrefix(q.Data, "page_"))
		if err != nil || page < 0 {
			return nil
		}
		return b.sendCatalog(ctx, chatID, page, q.Message.MessageID)

	case strings.HasPrefix(q.Data, "video_"):
		return b.sendVideoByID(ctx, chatID, strings.TrimPrefix(q.Data, "video_"))
	}

	return nil
}

func (b *Bot) saveVideo(ctx context.Context, chatID int64, title, fileID string) error {
	v, err := b.store.CreateVideo(ctx, title, fileID)
	if err != nil {
		b.sendText(ctx, chatID, msgFailure)
		return fmt.Errorf("creating video: %w", err)
	}
	return b.sendText(ctx, chatID, fmt.Sprintf(msgVideoSaved, b.deepLink(v.ID)))
}

func (b *Bot) finishAddOperator(ctx context.Context, chatID int64, identity string) error {
	op, err := b.addOperator(ctx, identity)
	if errors.Is(err, errInvalidIdentity) {
		return b.sendText(ctx, chatID, msgInvalidInput)
	}
	if err != nil {
		b.sendText(ctx, chatID, msgFailure)
		return fmt.Errorf("adding operator: %w", err)
	}
	return b.sendText(ctx, chatID, fmt.Sprintf(msgOperatorAdded, op))
}

func (b *Bot) sendJoinPrompt(ctx context.Context, chatID int64) error {
	_, err := b.tgc.SendMessage(ctx, tg.SendMessageParams{
		ChatID: chatID,
		Text:   msgJoinFirst,
		ReplyMarkup: &tg.InlineKeyboardMarkup{
			InlineKeyboard: [][]tg.InlineKeyboardButton{
				{{Text: btnJoinChannel, URL: "https://t.me/" + strings.TrimPrefix(b.channel, "@")}},
				{{Text: btnCheckMember, CallbackData: callbackCheckMembership}},
			},
		},
	})
	return err
}

func (b *Bot) sendText(ctx context.Context, chatID int64, text string) error {
	_, err := b.tgc.SendMessage(ctx, tg.SendMessageParams{ChatID: chatID, Text: text})
	return err
}

// command splits a "/cmd arg" message, stripping the optional @botname suffix
// commands carry in group chats. ok is false if text isn't a command.
func command(text string) (cmd, arg string, ok bool) {
	after, found := strings.CutPrefix(text, "/")
	if !found || after == "" {
		return "", "", false
	}
	cmd, arg, _ = strings.Cut(after, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return cmd, strings.TrimSpace(arg), true
}

// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"filmgate/internal/store"
	"filmgate/internal/tg"
)

const (
	// pageSize is the number of videos on one catalog page.
	pageSize = 5
	// recentTitlesLimit caps the plain-text listing for operators.
	recentTitlesLimit = 10
)

// deepLink returns the start-command URL resolving directly to one video.
func (b *Bot) deepLink(id string) string {
	return "https://t.me/" + b.botUsername + "?start=video_" + id
}

// catalogKeyboard builds the inline keyboard for one catalog page: a
// single-button row per video, plus a navigation row with a "previous" control
// iff page > 0 and a "next" control iff another page exists.
func catalogKeyboard(videos []*store.Video, page, total int) [][]tg.InlineKeyboardButton {
	var rows [][]tg.InlineKeyboardButton
	for _, v := range videos {
		rows = append(rows, []tg.InlineKeyboardButton{
			{Text: v.Title, CallbackData: "video_" + v.ID},
		})
	}

	var nav []tg.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, tg.InlineKeyboardButton{
			Text:         btnPrevPage,
			CallbackData: fmt.Sprintf("page_%d", page-1),
		})
	}
	if (page+1)*pageSize < total {
		nav = append(nav, tg.InlineKeyboardButton{
			Text:         btnNextPage,
			CallbackData: fmt.Sprintf("page_%d", page+1),
		})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	return rows
}

// sendCatalog renders one catalog page. If messageID is non-zero, the existing
// menu message is edited in place (used when paging, so the chat history
// doesn't accumulate duplicate menus); otherwise a new message is sent.
//
// Page p reads the window [p*pageSize, p*pageSize+pageSize) over the
// newest-first ordering. The window and the total count may disagree under a
// concurrent create; the menu self-corrects on the next page turn.
func (b *Bot) sendCatalog(ctx context.Context, chatID int64, page int, messageID int64) error {
	videos, total, err := b.store.Videos(ctx, page*pageSize, pageSize)
	if err != nil {
		return fmt.Errorf("reading catalog page %d: %w", page, err)
	}

	if total == 0 {
		return b.sendText(ctx, chatID, msgNoVideos)
	}

	markup := &tg.InlineKeyboardMarkup{InlineKeyboard: catalogKeyboard(videos, page, total)}
	if messageID != 0 {
		return b.tgc.EditMessageText(ctx, tg.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        msgCatalogHeader,
			ReplyMarkup: markup,
		})
	}
	_, err = b.tgc.SendMessage(ctx, tg.SendMessageParams{
		ChatID:      chatID,
		Text:        msgCatalogHeader,
		ReplyMarkup: markup,
	})
	return err
}

// sendVideoByID resolves a video by ID and sends its media with the title as
// caption, or a "not found" message.
func (b *Bot) sendVideoByID(ctx context.Context, chatID int64, id string) error {
	v, err := b.store.VideoByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return b.sendText(ctx, chatID, msgVideoNotFound)
	}
	if err != nil {
		return fmt.Errorf("looking up video %q: %w", id, err)
	}
	return b.tgc.SendVideo(ctx, tg.SendVideoParams{
		ChatID:  chatID,
		Video:   v.FileID,
		Caption: v.Title,
	})
}

// sendRecentTitles sends the operator-facing plain listing of the most recent
// titles.
func (b *Bot) sendRecentTitles(ctx context.Context, chatID int64) error {
	titles, err := b.store.RecentTitles(ctx, recentTitlesLimit)
	if err != nil {
		return fmt.Errorf("listing recent titles: %w", err)
	}
	if len(titles) == 0 {
		return b.sendText(ctx, chatID, msgNoVideos)
	}

	var sb strings.Builder
	sb.WriteString(msgListHeader)
	sb.WriteString("\n")
	for _, title := range titles {
		sb.WriteString("\n• ")
		sb.WriteString(title)
	}
	return b.sendText(ctx, chatID, sb.String())
}

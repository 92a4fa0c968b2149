// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package tg implements the subset of the Telegram Bot API that the bot
// consumes: sending and editing messages, sending videos, chat membership
// lookups and callback query answers.
package tg

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"filmgate/internal/request"
)

const api = "https://api.telegram.org"

// Config configures a [Client].
type Config struct {
	Token      string
	HTTPClient *http.Client
	Scrubber   *strings.Replacer
}

// Client makes Telegram Bot API calls.
type Client struct {
	token    string
	httpc    *http.Client
	scrubber *strings.Replacer
}

// New returns a new [Client].
func New(cfg Config) *Client {
	c := &Client{
		token:    cfg.Token,
		httpc:    cfg.HTTPClient,
		scrubber: cfg.Scrubber,
	}
	if c.httpc == nil {
		c.httpc = request.DefaultClient
	}
	return c
}

// response is the envelope every Bot API method responds with.
type response[Result any] struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      Result `json:"result"`
}

func call[Result any](ctx context.Context, c *Client, method string, args any) (Result, error) {
	resp, err := request.Make[response[Result]](ctx, request.Params{
		Method:     http.MethodPost,
		URL:        api + "/bot" + c.token + "/" + method,
		Body:       args,
		HTTPClient: c.httpc,
		Scrubber:   c.scrubber,
	})
	if err != nil {
		var zero Result
		return zero, fmt.Errorf("%s: %w", method, err)
	}
	if !resp.OK {
		var zero Result
		return zero, fmt.Errorf("%s: %s", method, resp.Description)
	}
	return resp.Result, nil
}

// BotInfo describes the bot itself, as reported by the getMe method.
type BotInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// GetMe returns basic information about the bot.
func (c *Client) GetMe(ctx context.Context) (BotInfo, error) {
	return call[BotInfo](ctx, c, "getMe", nil)
}

// SetWebhook points the bot's webhook to url, authenticated with secret.
func (c *Client) SetWebhook(ctx context.Context, url, secret string) error {
	_, err := call[bool](ctx, c, "setWebhook", map[string]string{
		"url":          url,
		"secret_token": secret,
	})
	return err
}

// SendMessageParams are the arguments of the sendMessage method.
type SendMessageParams struct {
	ChatID      int64  `json:"chat_id"`
	Text        string `json:"text"`
	ReplyMarkup any    `json:"reply_markup,omitempty"`
}

// SendMessage sends a text message.
func (c *Client) SendMessage(ctx context.Context, p SendMessageParams) (*Message, error) {
	return call[*Message](ctx, c, "sendMessage", p)
}

// EditMessageTextParams are the arguments of the editMessageText method.
type EditMessageTextParams struct {
	ChatID      int64  `json:"chat_id"`
	MessageID   int64  `json:"message_id"`
	Text        string `json:"text"`
	ReplyMarkup any    `json:"reply_markup,omitempty"`
}

// EditMessageText edits the text and reply markup of an existing message
// in place.
func (c *Client) EditMessageText(ctx context.Context, p EditMessageTextParams) error {
	// Result is the edited message; we have no use for it.
	_, err := call[*Message](ctx, c, "editMessageText", p)
	return err
}

// SendVideoParams are the arguments of the sendVideo method. Video is a
// Telegram file identifier of a previously uploaded video.
type SendVideoParams struct {
	ChatID  int64  `json:"chat_id"`
	Video   string `json:"video"`
	Caption string `json:"caption,omitempty"`
}

// SendVideo sends a video by its Telegram file identifier.
func (c *Client) SendVideo(ctx context.Context, p SendVideoParams) error {
	_, err := call[*Message](ctx, c, "sendVideo", p)
	return err
}

// GetChatMember returns the membership status of a user in a chat: one of
// creator, administrator, member, restricted, left or kicked.
func (c *Client) GetChatMember(ctx context.Context, chat string, userID int64) (string, error) {
	member, err := call[struct {
		Status string `json:"status"`
	}](ctx, c, "getChatMember", map[string]any{
		"chat_id": chat,
		"user_id": userID,
	})
	if err != nil {
		return "", err
	}
	return member.Status, nil
}

// AnswerCallbackQuery answers a callback query, showing text as a toast when
// it is non-empty.
func (c *Client) AnswerCallbackQuery(ctx context.Context, id, text string) error {
	_, err := call[bool](ctx, c, "answerCallbackQuery", map[string]string{
		"callback_query_id": id,
		"text":              text,
	})
	return err
}

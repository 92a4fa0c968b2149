// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package bot

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"filmgate/internal/store"
	"filmgate/internal/tg"
)

var (
	digitsRe = regexp.MustCompile(`^[0-9]+$`)
	// Telegram usernames: letters, digits and underscores, at least 5 characters.
	handleRe = regexp.MustCompile(`^[A-Za-z0-9_]{5,}$`)
)

var errInvalidIdentity = errors.New("invalid operator identity")

// subscribed reports whether the user is a member of the gated channel.
//
// The check fails closed: any transport error (including the user never having
// interacted with the channel) denies access. There are no retries; the user
// retries by re-issuing the command.
func (b *Bot) subscribed(ctx context.Context, userID int64) bool {
	status, err := b.tgc.GetChatMember(ctx, b.channel, userID)
	if err != nil {
		b.logf("Membership check for user %d failed, denying access: %v", userID, err)
		return false
	}
	switch status {
	case "member", "administrator", "creator":
		return true
	}
	return false
}

// isOperator reports whether the user holds operator privilege: the configured
// owner, or a stored operator record matching their numeric ID or username.
// Lookup errors deny privilege.
func (b *Bot) isOperator(ctx context.Context, u *tg.User) bool {
	if u.ID == b.owner {
		return true
	}
	ok, err := b.store.IsOperator(ctx, u.ID, u.Username)
	if err != nil {
		b.logf("Operator lookup for user %d failed: %v", u.ID, err)
		return false
	}
	return ok
}

// addOperator normalizes identity (stripping a leading @), validates it and
// upserts the operator record. It returns the stored identity, or
// [errInvalidIdentity] when identity is neither all-digits nor a valid
// username.
func (b *Bot) addOperator(ctx context.Context, identity string) (store.Operator, error) {
	id := strings.TrimPrefix(strings.TrimSpace(identity), "@")
	var op store.Operator
	switch {
	case digitsRe.MatchString(id):
		userID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return store.Operator{}, errInvalidIdentity
		}
		op = store.Operator{UserID: userID}
	case handleRe.MatchString(id):
		op = store.Operator{Username: id}
	default:
		return store.Operator{}, errInvalidIdentity
	}
	if err := b.store.AddOperator(ctx, op); err != nil {
		return store.Operator{}, err
	}
	return op, nil
}

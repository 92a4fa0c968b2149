// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Filmgate is a Telegram bot that serves a catalog of videos to channel members.

Viewers must be members of a configured channel: the bot verifies membership on
every /start and lets them browse a paginated menu of videos or open one
directly through a deep link. A small set of operators ingest new videos
through a guided dialogue or by sending a video file directly, and the bot
owner can appoint new operators.

# Usage

	$ filmgate [flags...]

# Environment variables

The following environment variables configure filmgate:

  - TG_TOKEN: Telegram Bot API token (required).
  - TG_SECRET: secret token used to authenticate webhook requests.
  - OWNER_ID: Telegram user ID of the bot owner (required).
  - CHANNEL: channel whose members may watch videos, e.g. @movies (required).
  - HOST: public host name the webhook is registered on (used with -prod).
  - DATABASE: path to the SQLite database (default filmgate.db).
  - PORT: port to listen on, overriding -addr.
*/
package main

import (
	_ "embed"

	"filmgate/internal/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifier and token generation.

# Slugs

Public poll links use a slug derived from the question plus a random suffix:

	slug, err := auth.GenerateSlug("Where should we eat?")
	// "where-should-we-eat-k3v9x0qa"

The question part is lower-cased, runs of other characters collapse to a
single hyphen, and it is truncated to 50 characters. The 8-character
suffix is drawn from [a-z0-9]. The store enforces uniqueness and asks for a
new slug on collision.

# Admin Tokens

Each poll has an admin token (a random UUID) that grants owner access:

	token := auth.GenerateAdminToken()
	err := auth.ValidateAdminToken(token)

There is no separate login; possession of the token is the credential.

# Ballot Tokens

A ballot token is minted once per accepted vote and stored in a cookie:

	token, err := auth.GenerateBallotToken()

Tokens are 32 random bytes, URL-safe base64 encoded without padding.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth

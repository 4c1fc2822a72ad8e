// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth verifies caller identity and generates random IDs.

# User Tokens

User tokens carry the user ID and an HMAC-SHA256 signature:

	token := auth.SignUserToken(userID, salt)        // "<userID>.<signature>"
	userID, err := auth.ValidateUserToken(token, salt)

Signatures are URL-safe base64 without padding. Tokens are issued by the
identity provider; the API only verifies them.

# Admin Key

Admin routes compare the X-Admin-Key header with the configured key in
constant time:

	err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), cfg.AdminKey)

# ID Generation

Random hex IDs for question bank entries:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth

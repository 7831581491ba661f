// Package share serializes single boards for handing to another person,
// either self-contained in a URL-safe string or hosted as a remote
// shared-board document.
package share

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/url"
	"time"

	"github.com/roach88/bingo/internal/game"
)

// Encode packs a board into a URL-safe payload: JSON, percent-encoded,
// then base64. The percent-encoding step keeps the JSON ASCII-clean before
// base64 so the decode side can reverse both unambiguously.
func Encode(b game.Board) (string, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return "", err
	}
	escaped := url.QueryEscape(string(data))
	return base64.URLEncoding.EncodeToString([]byte(escaped)), nil
}

// Decode reverses Encode. The second return is false on any failure:
// malformed base64, bad percent-encoding, invalid JSON, or a shape without
// a non-empty goals array. Shape validation is deliberately best-effort;
// a non-empty goals array is the minimum acceptance bar.
func Decode(payload string) (game.Board, bool) {
	raw, err := base64.URLEncoding.DecodeString(payload)
	if err != nil {
		return game.Board{}, false
	}
	unescaped, err := url.QueryUnescape(string(raw))
	if err != nil {
		return game.Board{}, false
	}
	var b game.Board
	if err := json.Unmarshal([]byte(unescaped), &b); err != nil {
		return game.Board{}, false
	}
	if len(b.Goals) == 0 {
		return game.Board{}, false
	}
	return b, true
}

// IDGenerator matches the generator package's ID source.
type IDGenerator interface {
	NewID() string
}

// CloneForAccept turns a decoded shared board into a brand-new board ready
// for insertion: fresh ID, fresh creation timestamp, celebration latch
// cleared. A shared board is never adopted as the literal linked object.
func CloneForAccept(b game.Board, ids IDGenerator, now func() time.Time) game.Board {
	nb := b.Clone()
	nb.ID = ids.NewID()
	nb.CreatedAt = now()
	nb.Celebrated = false
	return nb
}

// Poster is the slice of the remote document store the hosted contract
// needs.
type Poster interface {
	CreateShared(ctx context.Context, payload []byte) (string, error)
	FetchShared(ctx context.Context, id string) ([]byte, bool, error)
}

// hostedDoc is the shared-collection document shape: one board plus a share
// timestamp.
type hostedDoc struct {
	Board    game.Board `json:"board"`
	SharedAt time.Time  `json:"sharedAt"`
}

// Post writes a board to the remote shared collection and returns the
// generated document ID. Callers fall back to Encode when no remote store
// is configured or the write fails.
func Post(ctx context.Context, p Poster, b game.Board, now func() time.Time) (string, error) {
	data, err := json.Marshal(hostedDoc{Board: b, SharedAt: now()})
	if err != nil {
		return "", err
	}
	return p.CreateShared(ctx, data)
}

// Fetch resolves a shared-board document ID. The second return is false
// when the document is missing or its payload does not contain a usable
// board.
func Fetch(ctx context.Context, p Poster, id string) (game.Board, bool) {
	payload, ok, err := p.FetchShared(ctx, id)
	if err != nil || !ok {
		return game.Board{}, false
	}
	var doc hostedDoc
	if err := json.Unmarshal(payload, &doc); err == nil && len(doc.Board.Goals) > 0 {
		return doc.Board, true
	}
	// Tolerate a bare board payload from older share links.
	var b game.Board
	if err := json.Unmarshal(payload, &b); err == nil && len(b.Goals) > 0 {
		return b, true
	}
	return game.Board{}, false
}

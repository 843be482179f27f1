// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/panics"

	"github.com/jeranaias/madhava-tui/internal/model"
)

// SafeAsk calls the asker and turns a panic into an ordinary error so the
// caller can still settle its request.
func SafeAsk(ctx context.Context, asker Asker, question string) (answer string, err error) {
	var pc panics.Catcher
	pc.Try(func() {
		answer, err = asker.Ask(ctx, question)
	})
	if r := pc.Recovered(); r != nil {
		return "", fmt.Errorf("asker panicked: %v", r.Value)
	}
	return answer, err
}

// Ask runs one full submission synchronously: submit the draft, call the
// asker, settle. It returns the settled message and the asker's error, if
// any. Submit errors (blank draft, pending) are returned unchanged and
// nothing is appended.
func (s *Session) Ask(ctx context.Context, asker Asker) (model.Message, error) {
	req, err := s.Submit()
	if err != nil {
		return model.Message{}, err
	}

	answer, askErr := SafeAsk(ctx, asker, req.Question)
	if askErr != nil {
		msg, err := s.ReceiveFailure(req.ID, askErr)
		if err != nil {
			return msg, err
		}
		return msg, askErr
	}
	return s.ReceiveSuccess(req.ID, answer)
}

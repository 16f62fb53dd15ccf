package stages_test

import (
	"context"
	"errors"
)

// fakeCompleter returns canned JSON payloads per request, recording prompts.
type fakeCompleter struct {
	payloads   []string
	calls      int
	systemSeen []string
	userSeen   []string
	err        error
}

func (f *fakeCompleter) CompleteJSON(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.systemSeen = append(f.systemSeen, systemPrompt)
	f.userSeen = append(f.userSeen, userPrompt)
	if f.err != nil {
		return "", f.err
	}
	if f.calls >= len(f.payloads) {
		return "", errors.New("no payload configured")
	}
	payload := f.payloads[f.calls]
	f.calls++
	return payload, nil
}

func (f *fakeCompleter) Configured() bool {
	return true
}

// unconfiguredCompleter reports no API key.
type unconfiguredCompleter struct{}

func (unconfiguredCompleter) CompleteJSON(context.Context, string, string) (string, error) {
	return "", errors.New("not configured")
}

func (unconfiguredCompleter) Configured() bool { return false }

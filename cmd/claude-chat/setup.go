package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minhyannv/claude-chat/pkg/chat"
	"github.com/minhyannv/claude-chat/pkg/credential"
)

const (
	verifyPrompt   = "Say hello in one sentence"
	checkPrompt    = "Hello! Please respond with just 'Hello from Claude!' to confirm the connection works."
	checkMaxTokens = 100
)

// runSetup prompts for a key, stores it and optionally sends one test
// exchange. A failed test is reported but is not an error.
func (a *app) runSetup(ctx context.Context, verify bool) error {
	_, _ = fmt.Fprintln(a.out, "Claude API Key Setup")
	_, _ = fmt.Fprintln(a.out, strings.Repeat("=", 30))
	_, _ = fmt.Fprintln(a.out, "1. Go to https://console.anthropic.com")
	_, _ = fmt.Fprintln(a.out, "2. Sign up or log in")
	_, _ = fmt.Fprintln(a.out, "3. Create an API key")
	_, _ = fmt.Fprintln(a.out, "4. Copy the API key and paste it below")
	_, _ = fmt.Fprintln(a.out)

	apiKey, ok, err := a.store.PromptAndPersist(ctx, a.in, a.out)
	if errors.Is(err, context.Canceled) {
		_, _ = fmt.Fprintln(a.out)
		_, _ = fmt.Fprintln(a.out, "Setup cancelled.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("save API key: %w", err)
	}
	if !ok {
		_, _ = fmt.Fprintln(a.out, "No API key provided.")
		return nil
	}
	_, _ = fmt.Fprintf(a.out, "API key saved to %s\n", a.store.Path())
	_, _ = fmt.Fprintln(a.out, "Setup complete! You can now use Claude.")

	if !verify {
		return nil
	}

	_, _ = fmt.Fprintln(a.out)
	_, _ = fmt.Fprintln(a.out, "Testing connection...")
	cfg := a.cfg
	cfg.MaxTokens = cfg.VerifyMaxTokens
	ex, err := a.newExchanger(cfg, apiKey, a.logger)
	if err != nil {
		_, _ = fmt.Fprintf(a.out, "Connection failed: %v\n", err)
		return nil
	}
	res := ex.Exchange(ctx, verifyPrompt)
	if !res.OK() {
		_, _ = fmt.Fprintf(a.out, "Connection failed: %v\n", res.Err)
		a.printHints(res)
		return nil
	}
	_, _ = fmt.Fprintln(a.out, "Connection successful!")
	_, _ = fmt.Fprintf(a.out, "Claude says: %s\n", res.Reply)
	return nil
}

// runCheck diagnoses the resolved key with one small exchange.
func (a *app) runCheck(ctx context.Context) error {
	apiKey, ok := a.store.Resolve()
	if !ok {
		a.printMissingCredential()
		return nil
	}

	_, _ = fmt.Fprintln(a.out, "Testing Claude API Connection")
	_, _ = fmt.Fprintln(a.out, strings.Repeat("=", 40))
	_, _ = fmt.Fprintf(a.out, "API Key: %s\n", credential.Mask(apiKey))
	_, _ = fmt.Fprintf(a.out, "API Key Length: %d\n", len(apiKey))
	_, _ = fmt.Fprintf(a.out, "Model: %s\n", a.cfg.Model)
	_, _ = fmt.Fprintln(a.out)

	cfg := a.cfg
	cfg.MaxTokens = checkMaxTokens
	ex, err := a.newExchanger(cfg, apiKey, a.logger)
	if err != nil {
		_, _ = fmt.Fprintf(a.out, "Connection failed: %v\n", err)
		return nil
	}
	res := ex.Exchange(ctx, checkPrompt)
	if res.OK() {
		_, _ = fmt.Fprintln(a.out, "API call successful!")
		_, _ = fmt.Fprintf(a.out, "Response: %s\n", res.Reply)
		return nil
	}

	switch res.Kind {
	case chat.KindAuth:
		_, _ = fmt.Fprintf(a.out, "Authentication Error: %v\n", res.Err)
	case chat.KindPermission:
		_, _ = fmt.Fprintf(a.out, "Permission Error: %v\n", res.Err)
	default:
		_, _ = fmt.Fprintf(a.out, "Unexpected Error: %v\n", res.Err)
	}
	a.printHints(res)
	_, _ = fmt.Fprintln(a.out)
	_, _ = fmt.Fprintln(a.out, "API key test failed. Check your keys and billing at https://console.anthropic.com")
	return nil
}

func (a *app) printHints(res chat.Result) {
	hints := res.Hint()
	if len(hints) == 0 {
		return
	}
	_, _ = fmt.Fprintln(a.out, "Possible causes:")
	for i, h := range hints {
		_, _ = fmt.Fprintf(a.out, "%d. %s\n", i+1, h)
	}
}

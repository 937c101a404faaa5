package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"equiplend/adminctl/internal/action"
	"equiplend/adminctl/internal/confirm"
	"equiplend/adminctl/internal/prompt"
)

// runGuarded hosts one confirmation-gated flow at the terminal: show the
// target summary, ask for intent, then loop on the password prompt until the
// verification succeeds or the admin backs out. An empty password cancels.
func runGuarded(ctx context.Context, flow *confirm.Flow, p *action.Pending) error {
	if err := flow.Start(p); err != nil {
		return err
	}

	ok, err := promptYesNo(fmt.Sprintf("%s: %s. Proceed?", p.Kind, p.Summary))
	if err != nil {
		flow.Cancel()
		return err
	}
	if !ok {
		flow.Cancel()
		fmt.Fprintln(os.Stderr, "cancelled")
		return nil
	}
	if err := flow.ConfirmIntent(); err != nil {
		return err
	}

	for flow.Stage() == confirm.StagePrompting {
		secret, err := promptPassword("Confirm with your password (empty to cancel): ")
		if err != nil {
			flow.Cancel()
			return err
		}
		if secret == "" {
			flow.Cancel()
			fmt.Fprintln(os.Stderr, "cancelled")
			return nil
		}
		// The terminal has no input length cap, so reject over-long input
		// here rather than letting the prompt truncate it into a secret the
		// admin never typed.
		if prompt.TooLong(secret) {
			fmt.Fprintf(os.Stderr, "password exceeds %d characters\n", prompt.MaxSecretLen)
			continue
		}
		flow.SetSecret(secret)
		if err := flow.SubmitSecret(ctx); err != nil {
			flow.Cancel()
			return err
		}
		if msg := flow.PromptError(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
	}
	return nil
}

func promptYesNo(question string) (bool, error) {
	line, err := promptLine(question + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func promptLine(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}

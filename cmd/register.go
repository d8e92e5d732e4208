package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"registration/pkg/logger"
	"registration/pkg/registerclient"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// readSecret reads a line from stdin without echo when stdin is a terminal.
func readSecret(prompt string, in *bufio.Reader) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	fd := int(os.Stdin.Fd()) //nolint: gosec
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("could not read password: %w", err)
		}

		return string(b), nil
	}

	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("could not read password: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// registerCommand constructs the 'register' subcommand, a terminal client of
// the registration form of a running server.
func registerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "register",
		Short:       "Registers an account against a running server",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			baseURL, _ := cmd.Flags().GetString("url")
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			timeout, _ := cmd.Flags().GetDuration("timeout")

			in := bufio.NewReader(os.Stdin)
			pw, err := readSecret("Password: ", in)
			if err != nil {
				logger.Fatal(ctx, "could not read password", zap.Error(err))
			}
			confirmation, err := readSecret("Confirm Password: ", in)
			if err != nil {
				logger.Fatal(ctx, "could not read password confirmation", zap.Error(err))
			}

			jar, err := cookiejar.New(nil)
			if err != nil {
				logger.Fatal(ctx, "could not create cookie jar", zap.Error(err))
			}
			httpClient := &http.Client{Jar: jar}
			endpoint := strings.TrimRight(baseURL, "/") + "/register"

			form := registerclient.NewForm(
				registerclient.NewClient(endpoint, httpClient),
				registerclient.NewPageTokenProvider(endpoint, httpClient),
				registerclient.WithTimeout(timeout),
			)
			_ = form.SetField(registerclient.FieldName, name)
			_ = form.SetField(registerclient.FieldEmail, email)
			_ = form.SetField(registerclient.FieldPassword, pw)
			_ = form.SetField(registerclient.FieldPasswordConfirmation, confirmation)

			if err := form.Submit(ctx); err != nil && !errors.Is(err, registerclient.ErrTransport) {
				logger.Fatal(ctx, "could not submit registration", zap.Error(err))
			} else if err != nil {
				logger.Debug(ctx, "registration request failed", zap.Error(err))
			}

			st := form.State()
			if st.Phase == registerclient.PhaseShowingSuccess {
				fmt.Println(form.Welcome()) //nolint: forbidigo

				return
			}

			if st.General != "" {
				fmt.Fprintln(os.Stderr, st.General)
			}
			fields := make([]string, 0, len(st.Errors))
			for field := range st.Errors {
				fields = append(fields, field)
			}
			sort.Strings(fields)
			for _, field := range fields {
				for _, msg := range st.Errors[field] {
					fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
				}
			}
			os.Exit(1)
		},
	}

	cmd.Flags().String("url", "http://localhost:8080", "Base URL of the registration server")
	cmd.Flags().String("name", "", "Display name")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().Duration("timeout", 10*time.Second, "Submission timeout")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

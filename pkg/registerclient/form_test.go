package registerclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"registration/pkg/registerclient"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type submitterFunc func(ctx context.Context, fields registerclient.Fields, token string) (*registerclient.Response, error)

func (f submitterFunc) Register(
	ctx context.Context,
	fields registerclient.Fields,
	token string,
) (*registerclient.Response, error) {
	return f(ctx, fields, token)
}

func fill(t *testing.T, f *registerclient.Form) {
	t.Helper()

	require.NoError(t, f.SetField(registerclient.FieldName, "Jane"))
	require.NoError(t, f.SetField(registerclient.FieldEmail, "jane@example.com"))
	require.NoError(t, f.SetField(registerclient.FieldPassword, "pw123456"))
	require.NoError(t, f.SetField(registerclient.FieldPasswordConfirmation, "pw123456"))
}

func TestForm_SuccessResetsFields(t *testing.T) {
	submitter := submitterFunc(func(_ context.Context, fields registerclient.Fields, token string) (*registerclient.Response, error) {
		require.Equal(t, "tok", token)
		require.Equal(t, registerclient.Fields{
			Name: "Jane", Email: "jane@example.com", Password: "pw123456", PasswordConfirmation: "pw123456",
		}, fields)

		return &registerclient.Response{
			StatusCode: http.StatusCreated,
			Message:    "Registration completed.",
			User:       &registerclient.User{ID: 1, Name: "Jane", Email: "jane@example.com"},
		}, nil
	})
	f := registerclient.NewForm(submitter, registerclient.StaticToken("tok"))
	require.Equal(t, registerclient.PhaseIdle, f.State().Phase)
	require.Empty(t, f.Welcome())

	fill(t, f)
	require.NoError(t, f.Submit(context.Background()))

	st := f.State()
	require.Equal(t, registerclient.PhaseShowingSuccess, st.Phase)
	require.Equal(t, registerclient.Fields{}, st.Fields)
	require.Equal(t, int64(1), st.User.ID)
	require.Equal(t, "Welcome, Jane! Your account has been created.", f.Welcome())

	require.ErrorIs(t, f.Submit(context.Background()), registerclient.ErrAlreadyRegistered)

	f.Reset()
	st = f.State()
	require.Equal(t, registerclient.PhaseIdle, st.Phase)
	require.Nil(t, st.User)
	require.Empty(t, f.Welcome())
}

func TestForm_FieldErrorsThenEdit(t *testing.T) {
	submitter := submitterFunc(func(context.Context, registerclient.Fields, string) (*registerclient.Response, error) {
		return &registerclient.Response{
			StatusCode: http.StatusUnprocessableEntity,
			Message:    "The email has already been taken. (and 1 more error)",
			Errors: map[string][]string{
				"email":    {"The email has already been taken."},
				"password": {"The password field confirmation does not match."},
			},
		}, nil
	})
	f := registerclient.NewForm(submitter, registerclient.StaticToken("tok"))
	fill(t, f)

	require.NoError(t, f.Submit(context.Background()))

	st := f.State()
	require.Equal(t, registerclient.PhaseShowingErrors, st.Phase)
	require.Empty(t, st.General)
	require.Equal(t, []string{"The email has already been taken."}, st.Errors["email"])
	require.Equal(t, "jane@example.com", st.Fields.Email, "fields are kept on failure")

	// snapshots are copies
	st.Errors["email"][0] = "mutated"
	require.Equal(t, "The email has already been taken.", f.State().Errors["email"][0])

	require.NoError(t, f.SetField(registerclient.FieldEmail, "other@example.com"))
	st = f.State()
	require.Equal(t, registerclient.PhaseShowingErrors, st.Phase)
	require.NotContains(t, st.Errors, "email")
	require.Contains(t, st.Errors, "password")
}

func TestForm_GeneralError(t *testing.T) {
	cases := []struct {
		name    string
		res     *registerclient.Response
		general string
	}{
		{
			name:    "server message",
			res:     &registerclient.Response{StatusCode: 419, Message: "CSRF token mismatch."},
			general: "CSRF token mismatch.",
		},
		{
			name:    "no message",
			res:     &registerclient.Response{StatusCode: http.StatusBadGateway},
			general: registerclient.MessageRegistrationFailed,
		},
		{
			name:    "success status without user",
			res:     &registerclient.Response{StatusCode: http.StatusOK},
			general: registerclient.MessageRegistrationFailed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			submitter := submitterFunc(func(context.Context, registerclient.Fields, string) (*registerclient.Response, error) {
				return tc.res, nil
			})
			f := registerclient.NewForm(submitter, registerclient.StaticToken("tok"))

			require.NoError(t, f.Submit(context.Background()))
			st := f.State()
			require.Equal(t, registerclient.PhaseShowingErrors, st.Phase)
			require.Equal(t, tc.general, st.General)
			require.Empty(t, st.Errors)
		})
	}
}

func TestForm_NetworkErrors(t *testing.T) {
	cases := []struct {
		name      string
		submitter submitterFunc
		tokens    registerclient.TokenProvider
	}{
		{
			name: "transport failure",
			submitter: func(context.Context, registerclient.Fields, string) (*registerclient.Response, error) {
				return nil, errors.New("connection refused")
			},
			tokens: registerclient.StaticToken("tok"),
		},
		{
			name: "token failure",
			submitter: func(context.Context, registerclient.Fields, string) (*registerclient.Response, error) {
				t.Fatal("nothing may be sent without a token")

				return nil, nil
			},
			tokens: tokenFunc(func(context.Context) (string, error) { return "", errors.New("page unavailable") }),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := registerclient.NewForm(tc.submitter, tc.tokens)
			fill(t, f)

			err := f.Submit(context.Background())
			require.ErrorIs(t, err, registerclient.ErrTransport)

			st := f.State()
			require.Equal(t, registerclient.PhaseShowingErrors, st.Phase)
			require.Equal(t, registerclient.MessageNetworkError, st.General)
			require.Equal(t, "Jane", st.Fields.Name)
		})
	}
}

func TestForm_Timeout(t *testing.T) {
	submitter := submitterFunc(func(ctx context.Context, _ registerclient.Fields, _ string) (*registerclient.Response, error) {
		<-ctx.Done()

		return nil, ctx.Err()
	})
	f := registerclient.NewForm(submitter, registerclient.StaticToken("tok"), registerclient.WithTimeout(50*time.Millisecond))

	err := f.Submit(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.ErrorIs(t, err, registerclient.ErrTransport)
	require.Equal(t, registerclient.MessageNetworkError, f.State().General)
}

func TestForm_ConcurrentSubmitSendsOnce(t *testing.T) {
	var requests atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		close(started)
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Registration completed.","user":{"id":5,"name":"Jane","email":"jane@example.com"}}`))
	}))
	t.Cleanup(srv.Close)

	f := registerclient.NewForm(registerclient.NewClient(srv.URL, srv.Client()), registerclient.StaticToken("tok"))
	fill(t, f)

	var (
		wg        sync.WaitGroup
		submitErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		submitErr = f.Submit(context.Background())
	}()

	<-started
	require.Equal(t, registerclient.PhaseSubmitting, f.State().Phase)
	for range 3 {
		require.ErrorIs(t, f.Submit(context.Background()), registerclient.ErrSubmitInProgress)
	}

	close(release)
	wg.Wait()
	require.NoError(t, submitErr)

	require.Equal(t, int32(1), requests.Load())
	require.Equal(t, registerclient.PhaseShowingSuccess, f.State().Phase)
}

func TestForm_SetFieldUnknown(t *testing.T) {
	f := registerclient.NewForm(nil, registerclient.StaticToken("tok"))

	require.ErrorIs(t, f.SetField("remember", "1"), registerclient.ErrUnknownField)
}

func TestPhase_String(t *testing.T) {
	require.Equal(t, "Idle", registerclient.PhaseIdle.String())
	require.Equal(t, "Submitting", registerclient.PhaseSubmitting.String())
	require.Equal(t, "ShowingErrors", registerclient.PhaseShowingErrors.String())
	require.Equal(t, "ShowingSuccess", registerclient.PhaseShowingSuccess.String())
}

type tokenFunc func(ctx context.Context) (string, error)

func (f tokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

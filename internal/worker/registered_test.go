package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"registration/internal/registration"
	"registration/internal/worker"
	"registration/pkg/events"
	mockevents "registration/pkg/events/mock"
	"registration/pkg/logger"
	"registration/pkg/serrors"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

var registeredAt = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) //nolint: gochecknoglobals

func makeJob(id, accountID int64) *river.Job[registration.AccountRegisteredArgs] {
	return &river.Job[registration.AccountRegisteredArgs]{
		JobRow: &rivertype.JobRow{ID: id},
		Args: registration.AccountRegisteredArgs{
			AccountID:    accountID,
			Name:         "Jane Doe",
			Email:        "jane@example.com",
			RegisteredAt: registeredAt,
		},
	}
}

func TestAccountRegisteredWorker_Work_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := mockevents.NewMockPublisher(ctrl)
	w := worker.NewAccountRegisteredWorker(mock, time.Second)

	mock.EXPECT().PublishAccountRegistered(gomock.Any(), events.AccountRegistered{
		ID:           9,
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		RegisteredAt: registeredAt,
	}).Return(nil)

	require.NoError(t, w.Work(context.Background(), makeJob(1, 9)))
}

func TestAccountRegisteredWorker_Work_UnavailableSnoozes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := mockevents.NewMockPublisher(ctrl)
	w := worker.NewAccountRegisteredWorker(mock, 1500*time.Millisecond)

	mock.EXPECT().PublishAccountRegistered(gomock.Any(), gomock.Any()).
		Return(serrors.With(serrors.ErrUnavailable, "breaker open"))

	err := w.Work(context.Background(), makeJob(2, 9))
	require.Error(t, err)
	var snoozeErr *river.JobSnoozeError
	require.ErrorAs(t, err, &snoozeErr)
	require.Equal(t, 1500*time.Millisecond, snoozeErr.Duration)
}

func TestAccountRegisteredWorker_Work_DefaultRetryAfter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := mockevents.NewMockPublisher(ctrl)
	w := worker.NewAccountRegisteredWorker(mock, 0)

	mock.EXPECT().PublishAccountRegistered(gomock.Any(), gomock.Any()).
		Return(serrors.KindOnly(serrors.ErrUnavailable))

	err := w.Work(context.Background(), makeJob(3, 9))
	var snoozeErr *river.JobSnoozeError
	require.ErrorAs(t, err, &snoozeErr)
	require.Equal(t, 30*time.Second, snoozeErr.Duration)
}

func TestAccountRegisteredWorker_Work_GenericErrorWrapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := mockevents.NewMockPublisher(ctrl)
	w := worker.NewAccountRegisteredWorker(mock, time.Second)

	pubErr := errors.New("boom")
	mock.EXPECT().PublishAccountRegistered(gomock.Any(), gomock.Any()).Return(pubErr)

	err := w.Work(context.Background(), makeJob(4, 9))
	require.ErrorIs(t, err, pubErr)
	var cancelErr *river.JobCancelError
	require.NotErrorAs(t, err, &cancelErr, "did not expect JobCancelError")
	var snoozeErr *river.JobSnoozeError
	require.NotErrorAs(t, err, &snoozeErr, "did not expect JobSnoozeError")
}

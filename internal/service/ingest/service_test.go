package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/flock-watch/internal/domain"
	"github.com/KasumiMercury/flock-watch/internal/infra/notifier"
	"github.com/KasumiMercury/flock-watch/internal/infra/repository"
	"github.com/KasumiMercury/flock-watch/internal/localtime"
	"github.com/KasumiMercury/flock-watch/internal/service/alert"
	"github.com/KasumiMercury/flock-watch/internal/service/episode"
	"github.com/KasumiMercury/flock-watch/internal/service/pinstore"
)

type fixture struct {
	service *Service
	repo    domain.PinRepository
	pins    *pinstore.Store
	tracker *episode.Tracker
	channel *notifier.FakeChannel
}

func newFixture(t *testing.T, repo domain.PinRepository, opts ...Option) *fixture {
	t.Helper()

	formatter, err := localtime.New("Europe/London", true, localtime.WithClock(func() time.Time {
		return time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	}))
	if err != nil {
		t.Fatalf("localtime.New() error = %v", err)
	}

	if repo == nil {
		repo = repository.NewMemoryPinRepository()
	}

	pins := pinstore.NewStore(repo, formatter)
	tracker := episode.NewTracker(episode.NewMemoryStore(), episode.DefaultPolicy())
	channel := notifier.NewFakeChannel()
	dispatcher := alert.NewDispatcher(channel, repository.NewMemoryAlertLedger(time.Hour), "whatsapp:+353870000000", "whatsapp:+14155238886")

	return &fixture{
		service: NewService(tracker, pins, dispatcher, opts...),
		repo:    repo,
		pins:    pins,
		tracker: tracker,
		channel: channel,
	}
}

func reading(subject string, axis float64) Request {
	return Request{
		ObjectJSON: fmt.Sprintf(`{"longitude":-6.2603,"latitude":53.3498,"name":%q,"accelero_x":%v,"sats":9}`, subject, axis),
		DevEUI:     "70b3d57ed0001234",
		DeviceName: "collar-" + subject,
	}
}

func TestService_Ingest_PinMatchesReading(t *testing.T) {
	f := newFixture(t, nil)

	pin, err := f.service.Ingest(context.Background(), reading("ewe-1", 0.25))
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if pin.ID == "" {
		t.Error("pin ID is empty")
	}
	if pin.SubjectID != "ewe-1" {
		t.Errorf("SubjectID = %q", pin.SubjectID)
	}
	if pin.Longitude != -6.2603 || pin.Latitude != 53.3498 || pin.AcceleroX != 0.25 {
		t.Errorf("coordinates = (%v, %v, %v)", pin.Longitude, pin.Latitude, pin.AcceleroX)
	}
	if pin.DevEUI != "70b3d57ed0001234" || pin.DeviceName != "collar-ewe-1" {
		t.Errorf("device = (%q, %q)", pin.DevEUI, pin.DeviceName)
	}
	if pin.Satellites == nil || *pin.Satellites != 9 {
		t.Errorf("Satellites = %v, want 9", pin.Satellites)
	}
	if pin.Transition != domain.TransitionNormal {
		t.Errorf("Transition = %s, want normal", pin.Transition)
	}
	if pin.Timestamp == "" || pin.RecordedAt.IsZero() {
		t.Errorf("timestamps = (%q, %v)", pin.Timestamp, pin.RecordedAt)
	}
	if pin.RawPayload != reading("ewe-1", 0.25).ObjectJSON {
		t.Errorf("RawPayload = %q", pin.RawPayload)
	}

	all, err := f.pins.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(all) != 1 || all[0].ID != pin.ID {
		t.Errorf("FindAll() = %v, want the ingested pin", all)
	}
	if len(f.channel.Sent()) != 0 {
		t.Errorf("sent %d notifications for a normal reading", len(f.channel.Sent()))
	}
}

func TestService_Ingest_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "missing name", raw: `{"longitude":1,"latitude":2,"accelero_x":-1}`},
		{name: "non-numeric longitude", raw: `{"longitude":"east","latitude":2,"name":"ewe-1","accelero_x":-1}`},
		{name: "invalid json", raw: `{"longitude":1,`},
		{name: "missing axis", raw: `{"longitude":1,"latitude":2,"name":"ewe-1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			ctx := context.Background()

			_, err := f.service.Ingest(ctx, Request{ObjectJSON: tt.raw})
			if !errors.Is(err, domain.ErrMalformedPayload) {
				t.Fatalf("Ingest() error = %v, want ErrMalformedPayload", err)
			}

			pins, err := f.pins.FindAll(ctx)
			if err != nil {
				t.Fatalf("FindAll() error = %v", err)
			}
			if len(pins) != 0 {
				t.Errorf("stored %d pins, want 0", len(pins))
			}
			if _, err := f.tracker.State(ctx, "ewe-1"); !errors.Is(err, domain.ErrEpisodeNotFound) {
				t.Errorf("episode state touched: %v", err)
			}
			if len(f.channel.Sent()) != 0 {
				t.Error("notification sent for malformed payload")
			}
		})
	}
}

func TestService_Ingest_SustainedThenRecovered(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	var transitions []domain.Transition
	for _, axis := range []float64{-0.9, -0.9, 0.5} {
		pin, err := f.service.Ingest(ctx, reading("ewe-12", axis))
		if err != nil {
			t.Fatalf("Ingest(%v) error = %v", axis, err)
		}
		transitions = append(transitions, pin.Transition)
	}

	want := []domain.Transition{
		domain.TransitionEnteringAnomaly,
		domain.TransitionSustainedAnomaly,
		domain.TransitionRecovered,
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("reading %d transition = %s, want %s", i, transitions[i], want[i])
		}
	}

	pins, err := f.pins.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(pins) != 3 {
		t.Errorf("stored %d pins, want 3", len(pins))
	}

	var recovered, upsideDown int
	for _, msg := range f.channel.Sent() {
		switch msg.Message {
		case "Your sheep ewe-12 is back up":
			recovered++
		case "Your sheep ewe-12 is upside down":
			upsideDown++
		default:
			t.Errorf("unexpected notification %q", msg.Message)
		}
	}
	if recovered != 1 {
		t.Errorf("recovered notifications = %d, want 1", recovered)
	}
	if upsideDown != 1 {
		t.Errorf("upside down notifications = %d, want 1", upsideDown)
	}

	state, err := f.service.Episode(ctx, "ewe-12")
	if err != nil {
		t.Fatalf("Episode() error = %v", err)
	}
	if state.Count != 0 || state.IsAnomalous() {
		t.Errorf("state after recovery = %+v", state)
	}
}

func TestService_Ingest_OneAlertPerEpisode(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := f.service.Ingest(ctx, reading("ewe-5", -3)); err != nil {
			t.Fatalf("Ingest() error = %v", err)
		}
	}

	if got := len(f.channel.Sent()); got != 1 {
		t.Errorf("sent %d notifications, want 1", got)
	}
}

func TestService_Ingest_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := domain.NewMockPinRepository(ctrl)
	f := newFixture(t, repo)
	ctx := context.Background()

	gomock.InOrder(
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil),
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("connection reset")),
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil),
	)

	if _, err := f.service.Ingest(ctx, reading("ewe-7", -1)); err != nil {
		t.Fatalf("first Ingest() error = %v", err)
	}

	_, err := f.service.Ingest(ctx, reading("ewe-7", -1))
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("second Ingest() error = %v, want ErrStoreUnavailable", err)
	}

	state, err := f.tracker.State(ctx, "ewe-7")
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if state.Count != 1 || state.Alerted {
		t.Errorf("state after failed store = %+v, want count 1", state)
	}
	if len(f.channel.Sent()) != 0 {
		t.Error("notification sent although the pin was not stored")
	}

	pin, err := f.service.Ingest(ctx, reading("ewe-7", -1))
	if err != nil {
		t.Fatalf("third Ingest() error = %v", err)
	}
	if pin.Transition != domain.TransitionSustainedAnomaly {
		t.Errorf("retry transition = %s, want sustained_anomaly", pin.Transition)
	}
	if len(f.channel.Sent()) != 1 {
		t.Errorf("sent %d notifications, want 1", len(f.channel.Sent()))
	}
}

func TestService_Ingest_NotificationFailureIsDropped(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.channel.SetError(errors.New("provider down"))

	for _, axis := range []float64{-1, -1} {
		if _, err := f.service.Ingest(ctx, reading("ewe-8", axis)); err != nil {
			t.Fatalf("Ingest() error = %v", err)
		}
	}

	state, err := f.tracker.State(ctx, "ewe-8")
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if !state.Alerted {
		t.Error("episode not marked alerted after failed delivery")
	}
}

func TestService_Ingest_RecordsTelemetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	recorder := domain.NewMockReadingRecorder(ctrl)
	f := newFixture(t, nil, WithRecorder(recorder))

	recorder.EXPECT().RecordReading(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r domain.ReadingRecord) error {
			if r.SubjectID != "ewe-9" || r.AcceleroX != -2 || r.Transition != domain.TransitionEnteringAnomaly {
				t.Errorf("record = %+v", r)
			}
			return errors.New("influx down")
		},
	)

	if _, err := f.service.Ingest(context.Background(), reading("ewe-9", -2)); err != nil {
		t.Errorf("Ingest() error = %v, want recorder failure ignored", err)
	}
}

package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/flock-watch/internal/domain"
	"github.com/KasumiMercury/flock-watch/internal/infra/notifier"
	"github.com/KasumiMercury/flock-watch/internal/infra/repository"
	"github.com/KasumiMercury/flock-watch/internal/localtime"
	"github.com/KasumiMercury/flock-watch/internal/service/alert"
	"github.com/KasumiMercury/flock-watch/internal/service/episode"
	"github.com/KasumiMercury/flock-watch/internal/service/ingest"
	"github.com/KasumiMercury/flock-watch/internal/service/pinstore"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

type server struct {
	router  *gin.Engine
	channel *notifier.FakeChannel
}

func newServer(t *testing.T, repo domain.PinRepository, auth gin.HandlerFunc) *server {
	t.Helper()

	formatter, err := localtime.New("Europe/Dublin", true, localtime.WithClock(func() time.Time {
		return time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
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
	svc := ingest.NewService(tracker, pins, dispatcher)

	r := gin.New()
	RegisterRoutes(r, NewPinHandler(svc, pins), NewEpisodeHandler(svc), auth)

	return &server{router: r, channel: channel}
}

func (s *server) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func createBody(subject string, axis float64) map[string]string {
	return map[string]string{
		"objectJSON": fmt.Sprintf(`{"longitude":-6.2603,"latitude":53.3498,"name":%q,"accelero_x":%v}`, subject, axis),
		"devEUI":     "70b3d57ed0001234",
		"deviceName": "collar-" + subject,
	}
}

func TestPinHandler_Create(t *testing.T) {
	s := newServer(t, nil, nil)

	w := s.do(t, http.MethodPost, "/api/pins", createBody("ewe-1", 0.4))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	pin := decode[domain.Pin](t, w)
	if pin.ID == "" || pin.SubjectID != "ewe-1" {
		t.Errorf("pin = %+v", pin)
	}
	if pin.DevEUI != "70b3d57ed0001234" || pin.DeviceName != "collar-ewe-1" {
		t.Errorf("envelope = %q/%q", pin.DevEUI, pin.DeviceName)
	}
	if pin.Timestamp == "" {
		t.Error("timestamp is empty")
	}
	if pin.Transition != domain.TransitionNormal {
		t.Errorf("transition = %q", pin.Transition)
	}
}

func TestPinHandler_Create_Rejected(t *testing.T) {
	tests := []struct {
		name      string
		body      any
		wantError string
	}{
		{
			name:      "missing name",
			body:      map[string]string{"objectJSON": `{"longitude":1,"latitude":2,"accelero_x":0.1}`},
			wantError: "malformed_payload",
		},
		{
			name:      "non numeric longitude",
			body:      map[string]string{"objectJSON": `{"longitude":"west","latitude":2,"name":"ewe-1","accelero_x":0.1}`},
			wantError: "malformed_payload",
		},
		{
			name:      "object json is not json",
			body:      map[string]string{"objectJSON": `{longitude`},
			wantError: "malformed_payload",
		},
		{
			name:      "body is not an object",
			body:      []int{1, 2},
			wantError: "validation_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer(t, nil, nil)

			w := s.do(t, http.MethodPost, "/api/pins", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if got := decode[errorResponse](t, w); got.Error != tt.wantError {
				t.Errorf("error = %q, want %q", got.Error, tt.wantError)
			}

			list := s.do(t, http.MethodGet, "/api/pins", nil)
			if pins := decode[[]domain.Pin](t, list); len(pins) != 0 {
				t.Errorf("stored %d pins for a rejected request", len(pins))
			}
		})
	}
}

func TestPinHandler_Create_StoreUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockPinRepository(ctrl)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

	s := newServer(t, repo, nil)

	w := s.do(t, http.MethodPost, "/api/pins", createBody("ewe-1", -0.4))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if got := decode[errorResponse](t, w); got.Error != "store_unavailable" {
		t.Errorf("error = %q", got.Error)
	}
}

func TestPinHandler_ListAndLatest(t *testing.T) {
	s := newServer(t, nil, nil)

	for _, body := range []map[string]string{
		createBody("ewe-1", 0.1),
		createBody("ewe-2", 0.2),
		createBody("ewe-1", 0.3),
	} {
		if w := s.do(t, http.MethodPost, "/api/pins", body); w.Code != http.StatusCreated {
			t.Fatalf("create status = %d", w.Code)
		}
	}

	w := s.do(t, http.MethodGet, "/api/pins", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	if pins := decode[[]domain.Pin](t, w); len(pins) != 3 {
		t.Errorf("len(pins) = %d, want 3", len(pins))
	}

	w = s.do(t, http.MethodGet, "/api/pins/ewe-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("latest status = %d", w.Code)
	}
	if latest := decode[domain.Pin](t, w); latest.AcceleroX != 0.3 {
		t.Errorf("latest accelero_x = %v, want 0.3", latest.AcceleroX)
	}

	w = s.do(t, http.MethodGet, "/api/pins/ram-9", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown subject status = %d, want 404", w.Code)
	}
}

func TestPinHandler_Delete(t *testing.T) {
	s := newServer(t, nil, nil)

	created := decode[domain.Pin](t, s.do(t, http.MethodPost, "/api/pins", createBody("ewe-1", 0.1)))
	s.do(t, http.MethodPost, "/api/pins", createBody("ewe-2", 0.1))

	w := s.do(t, http.MethodDelete, "/api/pins/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	if deleted := decode[domain.Pin](t, w); deleted.ID != created.ID {
		t.Errorf("deleted id = %q, want %q", deleted.ID, created.ID)
	}

	w = s.do(t, http.MethodDelete, "/api/pins/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}

	w = s.do(t, http.MethodDelete, "/api/pins", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete all status = %d", w.Code)
	}
	if got := decode[deleteAllResponse](t, w); got.Deleted != 1 {
		t.Errorf("deleted = %d, want 1", got.Deleted)
	}

	if pins := decode[[]domain.Pin](t, s.do(t, http.MethodGet, "/api/pins", nil)); len(pins) != 0 {
		t.Errorf("len(pins) = %d after delete all", len(pins))
	}
}

func frame(axis int16, lat, lon float64, sats uint16) []byte {
	data := make([]byte, 40)
	data[13] = byte(uint16(axis) >> 8)
	data[14] = byte(uint16(axis))
	putInt24(data[21:], int32(math.Round(lat*10000)))
	putInt24(data[24:], int32(math.Round(lon*10000)))
	data[38] = byte(sats >> 8)
	data[39] = byte(sats)
	return data
}

func putInt24(b []byte, v int32) {
	u := uint32(v) & 0xFFFFFF
	b[0] = byte(u >> 16)
	b[1] = byte(u >> 8)
	b[2] = byte(u)
}

func TestPinHandler_Uplink(t *testing.T) {
	s := newServer(t, nil, nil)

	body := map[string]string{
		"data":       base64.StdEncoding.EncodeToString(frame(-500, 53.3498, -6.2603, 9)),
		"devEUI":     "70b3d57ed0001234",
		"deviceName": "collar-12",
		"name":       "ewe-12",
	}

	w := s.do(t, http.MethodPost, "/api/pins/uplink", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	pin := decode[domain.Pin](t, w)
	if pin.SubjectID != "ewe-12" {
		t.Errorf("SubjectID = %q", pin.SubjectID)
	}
	if pin.AcceleroX != -500 {
		t.Errorf("AcceleroX = %v, want -500", pin.AcceleroX)
	}
	if pin.Latitude != 53.3498 || pin.Longitude != -6.2603 {
		t.Errorf("position = (%v, %v)", pin.Latitude, pin.Longitude)
	}
	if pin.Satellites == nil || *pin.Satellites != 9 {
		t.Errorf("Satellites = %v, want 9", pin.Satellites)
	}
	if pin.Transition != domain.TransitionEnteringAnomaly {
		t.Errorf("Transition = %q", pin.Transition)
	}
}

func TestPinHandler_Uplink_Rejected(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not base64", "!!not-base64!!"},
		{"short frame", base64.StdEncoding.EncodeToString(make([]byte, 12))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer(t, nil, nil)

			w := s.do(t, http.MethodPost, "/api/pins/uplink", map[string]string{"data": tt.data, "name": "ewe-1"})
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestEpisodeHandler_Get(t *testing.T) {
	s := newServer(t, nil, nil)

	for _, axis := range []float64{-0.9, -0.9} {
		s.do(t, http.MethodPost, "/api/pins", createBody("ewe-12", axis))
	}

	w := s.do(t, http.MethodGet, "/api/episodes/ewe-12", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	got := decode[episodeResponse](t, w)
	want := episodeResponse{
		SubjectID:      "ewe-12",
		Count:          2,
		Classification: domain.ClassificationAnomalous,
		Alerted:        true,
	}
	if got != want {
		t.Errorf("episode = %+v, want %+v", got, want)
	}

	if sent := s.channel.Sent(); len(sent) != 1 {
		t.Errorf("sent %d notifications, want 1", len(sent))
	}

	if w := s.do(t, http.MethodGet, "/api/episodes/ram-9", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown subject status = %d, want 404", w.Code)
	}
}

func token(t *testing.T, secret string, expires time.Time) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "farm-console",
		Issuer:    "flock-watch",
		ExpiresAt: jwt.NewNumericDate(expires),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestJWTAuth(t *testing.T) {
	s := newServer(t, nil, JWTAuth(testSecret, "flock-watch"))
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + token(t, "ffffffffffffffffffffffffffffffff", future), http.StatusUnauthorized},
		{"expired", "Bearer " + token(t, testSecret, time.Now().Add(-time.Hour)), http.StatusUnauthorized},
		{"valid", "Bearer " + token(t, testSecret, future), http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var headers []string
			if tt.header != "" {
				headers = []string{"Authorization", tt.header}
			}

			w := s.do(t, http.MethodPost, "/api/pins", createBody("ewe-1", 0.1), headers...)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}

	t.Run("reads stay open", func(t *testing.T) {
		if w := s.do(t, http.MethodGet, "/api/pins", nil); w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})
}

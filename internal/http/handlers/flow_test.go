package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kreators-dev/easyslang-backend/internal/domain"
	"github.com/kreators-dev/easyslang-backend/internal/pkg/apierr"
	"github.com/kreators-dev/easyslang-backend/internal/pkg/logger"
)

type fakeFlowService struct {
	submitResp *domain.FlowChatResponse
	submitErr  error
	getResp    *domain.FlowSession
	getErr     error
	deleteErr  error
	catalog    []domain.EmotionPreview

	gotReq domain.FlowChatRequest
}

func (f *fakeFlowService) SubmitAction(_ context.Context, req domain.FlowChatRequest) (*domain.FlowChatResponse, error) {
	f.gotReq = req
	return f.submitResp, f.submitErr
}

func (f *fakeFlowService) GetSession(_ context.Context, _ string) (*domain.FlowSession, error) {
	return f.getResp, f.getErr
}

func (f *fakeFlowService) DeleteSession(_ context.Context, _ string) error {
	return f.deleteErr
}

func (f *fakeFlowService) EmotionCatalog() []domain.EmotionPreview {
	return f.catalog
}

func newFlowTestRouter(t *testing.T, svc *fakeFlowService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	h := NewFlowHandler(log, svc)

	router := gin.New()
	router.POST("/v1/ai/flow-chat", h.SubmitAction)
	router.GET("/v1/ai/flow-chat/emotions", h.Emotions)
	router.GET("/v1/ai/flow-chat/session/:id", h.GetSession)
	router.DELETE("/v1/ai/flow-chat/session/:id", h.DeleteSession)
	return router
}

func TestFlowHandlerSubmitAction(t *testing.T) {
	svc := &fakeFlowService{
		submitResp: &domain.FlowChatResponse{
			SessionID:    "abc",
			Stage:        domain.StageStarter,
			ResponseText: "Hi there!",
			NextAction:   "Listen to the audio and proceed to next stage",
		},
	}
	router := newFlowTestRouter(t, svc)

	body := `{"action":"pick_emotion","emotion":"happy"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/ai/flow-chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", w.Code, w.Body.String())
	}
	if svc.gotReq.Action != domain.ActionPickEmotion || svc.gotReq.Emotion != "happy" {
		t.Errorf("service got wrong request: %+v", svc.gotReq)
	}

	var resp domain.FlowChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SessionID != "abc" || resp.Stage != domain.StageStarter {
		t.Errorf("response: %+v", resp)
	}
}

func TestFlowHandlerSubmitActionBadBody(t *testing.T) {
	router := newFlowTestRouter(t, &fakeFlowService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/ai/flow-chat", strings.NewReader(`{"emotion":"happy"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d", w.Code)
	}
	assertErrorCode(t, w.Body.Bytes(), apierr.CodeInvalidRequest)
}

func TestFlowHandlerMapsAPIErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        *apierr.Error
		wantStatus int
		wantCode   string
	}{
		{"not found", apierr.New(http.StatusNotFound, apierr.CodeSessionNotFound, nil), 404, apierr.CodeSessionNotFound},
		{"unexpected voice", apierr.New(http.StatusBadRequest, apierr.CodeUnexpectedVoiceInput, nil), 400, apierr.CodeUnexpectedVoiceInput},
		{"completed", apierr.New(http.StatusConflict, apierr.CodeConversationCompleted, nil), 409, apierr.CodeConversationCompleted},
		{"upstream", apierr.New(http.StatusBadGateway, apierr.CodeExternalServiceFailure, nil), 502, apierr.CodeExternalServiceFailure},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newFlowTestRouter(t, &fakeFlowService{submitErr: tc.err})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/ai/flow-chat",
				strings.NewReader(`{"action":"next_stage","session_id":"abc"}`))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Errorf("status: want=%d got=%d", tc.wantStatus, w.Code)
			}
			assertErrorCode(t, w.Body.Bytes(), tc.wantCode)
		})
	}
}

func TestFlowHandlerGetSession(t *testing.T) {
	svc := &fakeFlowService{
		getResp: &domain.FlowSession{ID: "abc", Emotion: "happy", Stage: domain.StageParaphrase},
	}
	router := newFlowTestRouter(t, svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/ai/flow-chat/session/abc", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", w.Code)
	}
	var sess domain.FlowSession
	if err := json.Unmarshal(w.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sess.ID != "abc" || sess.Stage != domain.StageParaphrase {
		t.Errorf("session: %+v", sess)
	}
}

func TestFlowHandlerDeleteSession(t *testing.T) {
	router := newFlowTestRouter(t, &fakeFlowService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/ai/flow-chat/session/abc", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["deleted"] != true || body["session_id"] != "abc" {
		t.Errorf("body: %v", body)
	}
}

func TestFlowHandlerEmotions(t *testing.T) {
	svc := &fakeFlowService{
		catalog: []domain.EmotionPreview{
			{Emotion: "happy", VocabularyPreview: []string{"joyful", "delighted"}},
		},
	}
	router := newFlowTestRouter(t, svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/ai/flow-chat/emotions", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", w.Code)
	}
	var body struct {
		Emotions []domain.EmotionPreview `json:"emotions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Emotions) != 1 || body.Emotions[0].Emotion != "happy" {
		t.Errorf("emotions: %+v", body.Emotions)
	}
}

func assertErrorCode(t *testing.T, raw []byte, wantCode string) {
	t.Helper()
	var envelope struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("decode error envelope: %v (raw=%s)", err, raw)
	}
	if envelope.Error.Code != wantCode {
		t.Errorf("code: want=%q got=%q", wantCode, envelope.Error.Code)
	}
}

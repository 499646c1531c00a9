package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"aiustaz-backend/internal/models"
	"aiustaz-backend/internal/services"
)

// stubGenerator scripts Generate replies in call order.
type stubGenerator struct {
	configured bool
	replies    []string
	errs       []error
	calls      int
}

func (s *stubGenerator) Configured() bool { return s.configured }

func (s *stubGenerator) Generate(ctx context.Context, prompt string, maxTokens int32) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return "", errors.New("no scripted reply")
}

type stubProber struct {
	stubGenerator
	probeErr error
}

func (s *stubProber) Probe(ctx context.Context, modelName string) (string, time.Duration, error) {
	if s.probeErr != nil {
		return "", 10 * time.Millisecond, s.probeErr
	}
	return "Работает", 10 * time.Millisecond, nil
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func formRequest(target, text string) *http.Request {
	body := url.Values{"pdf_text": {text}}.Encode()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func jsonRequest(target string, body interface{}) *http.Request {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return out
}

// ─── Flashcard Handler Tests ───

func TestGenerateFlashcards_DropsMalformedCards(t *testing.T) {
	// 10 cards from the model, 2 of them without a usable back side.
	var cards []map[string]string
	for i := 1; i <= 8; i++ {
		cards = append(cards, map[string]string{
			"front": fmt.Sprintf("Вопрос %d", i),
			"back":  fmt.Sprintf("Развернутый ответ %d", i),
		})
	}
	cards = append(cards,
		map[string]string{"front": "Вопрос без ответа", "back": ""},
		map[string]string{"front": "Еще один", "back": "ok"},
	)
	cardsJSON, _ := json.Marshal(cards)

	ai := &stubGenerator{
		configured: true,
		replies:    []string{"Основы биологии", string(cardsJSON)},
	}
	h := NewFlashcardHandler(ai, testLogger())

	rr := httptest.NewRecorder()
	h.Generate(rr, formRequest("/api/generate-flashcards", "Биология изучает живые организмы."))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp models.FlashcardSetResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("Expected success=true")
	}
	if resp.Count != 8 || len(resp.Flashcards) != 8 {
		t.Errorf("Expected exactly 8 surviving cards, got count=%d len=%d", resp.Count, len(resp.Flashcards))
	}
	if resp.Title != "Основы биологии" {
		t.Errorf("Expected AI title, got %q", resp.Title)
	}
	if resp.Note != "" {
		t.Errorf("Expected no fallback note, got %q", resp.Note)
	}
}

func TestGenerateFlashcards_MissingText(t *testing.T) {
	h := NewFlashcardHandler(&stubGenerator{configured: true}, testLogger())

	rr := httptest.NewRecorder()
	h.Generate(rr, formRequest("/api/generate-flashcards", ""))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rr.Code)
	}
	resp := decodeEnvelope(t, rr)
	if resp["success"] != false {
		t.Errorf("Expected success=false, got %v", resp["success"])
	}
	if resp["error"] != "Текст PDF не предоставлен" {
		t.Errorf("Unexpected error message: %v", resp["error"])
	}
}

func TestGenerateFlashcards_Unconfigured(t *testing.T) {
	h := NewFlashcardHandler(&stubGenerator{configured: false}, testLogger())

	rr := httptest.NewRecorder()
	h.Generate(rr, formRequest("/api/generate-flashcards", "текст"))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rr.Code)
	}
}

func TestGenerateFlashcards_FallbackOnModelFailure(t *testing.T) {
	boom := errors.New("provider down")
	ai := &stubGenerator{
		configured: true,
		errs:       []error{boom, boom},
	}
	h := NewFlashcardHandler(ai, testLogger())

	rr := httptest.NewRecorder()
	h.Generate(rr, formRequest("/api/generate-flashcards",
		"Клеточное дыхание происходит в митохондриях и производит энергию для клетки."))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected fallback success, got %d", rr.Code)
	}

	var resp models.FlashcardSetResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if !resp.Success {
		t.Error("Expected success=true from fallback path")
	}
	if resp.Count != 15 {
		t.Errorf("Expected full fallback deck of 15, got %d", resp.Count)
	}
	if resp.Note == "" {
		t.Error("Expected fallback note to be set")
	}
}

// ─── Microlearning Handler Tests ───

func microlearningBundle(questionCount int) string {
	questions := make([]map[string]interface{}, questionCount)
	for i := range questions {
		questions[i] = map[string]interface{}{
			"type":           "true_false",
			"question":       fmt.Sprintf("Утверждение %d верно?", i+1),
			"correct_answer": true,
			"explanation":    "Пояснение",
		}
	}
	bundle := map[string]interface{}{
		"theory":        []map[string]string{{"title": "Введение", "content": "Основы темы"}},
		"flashcards":    []map[string]string{{"front": "Термин", "back": "Определение"}},
		"textQuiz":      questions,
		"practicalQuiz": []map[string]string{{"type": "practical", "task": "Опишите процесс"}},
	}
	data, _ := json.Marshal(bundle)
	return string(data)
}

func TestGenerateMicrolearning_Success(t *testing.T) {
	ai := &stubGenerator{
		configured: true,
		replies:    []string{"Введение в тему", microlearningBundle(6)},
	}
	h := NewMicrolearningHandler(ai, testLogger())

	rr := httptest.NewRecorder()
	h.Generate(rr, jsonRequest("/api/generate-microlearning", map[string]string{
		"pdf_text": "учебный материал",
		"pdf_name": "lecture.pdf",
	}))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeEnvelope(t, rr)
	if resp["title"] != "Введение в тему" {
		t.Errorf("Unexpected title: %v", resp["title"])
	}
	ml := resp["microlearning"].(map[string]interface{})
	if got := len(ml["textQuiz"].([]interface{})); got != 6 {
		t.Errorf("Expected 6 questions, got %d", got)
	}
}

func TestGenerateMicrolearning_MissingComponents(t *testing.T) {
	ai := &stubGenerator{
		configured: true,
		replies:    []string{"Название", `{"theory": [], "flashcards": []}`},
	}
	h := NewMicrolearningHandler(ai, testLogger())

	rr := httptest.NewRecorder()
	h.Generate(rr, jsonRequest("/api/generate-microlearning", map[string]string{"pdf_text": "текст"}))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rr.Code)
	}
	resp := decodeEnvelope(t, rr)
	msg, _ := resp["error"].(string)
	if !strings.Contains(msg, "textQuiz") || !strings.Contains(msg, "practicalQuiz") {
		t.Errorf("Expected missing keys named in error, got %q", msg)
	}
}

func TestGenerateMicrolearning_TooFewValidQuestions(t *testing.T) {
	ai := &stubGenerator{
		configured: true,
		replies:    []string{"Название", microlearningBundle(3)},
	}
	h := NewMicrolearningHandler(ai, testLogger())

	rr := httptest.NewRecorder()
	h.Generate(rr, jsonRequest("/api/generate-microlearning", map[string]string{"pdf_text": "текст"}))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rr.Code)
	}
	resp := decodeEnvelope(t, rr)
	if msg, _ := resp["error"].(string); !strings.Contains(msg, "3") {
		t.Errorf("Expected surviving count in error, got %q", msg)
	}
}

func TestGenerateMicrolearning_TitleFallsBackToFileName(t *testing.T) {
	ai := &stubGenerator{
		configured: true,
		errs:       []error{errors.New("down")},
		replies:    []string{"", microlearningBundle(5)},
	}
	h := NewMicrolearningHandler(ai, testLogger())

	rr := httptest.NewRecorder()
	h.Generate(rr, jsonRequest("/api/generate-microlearning", map[string]string{
		"pdf_text": "текст",
		"pdf_name": "biology.pdf",
	}))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeEnvelope(t, rr)
	if resp["title"] != "biology" {
		t.Errorf("Expected file-name title 'biology', got %v", resp["title"])
	}
}

// ─── Practical Handler Tests ───

func TestCheckPracticalAnswer_MissingFields(t *testing.T) {
	h := NewPracticalHandler(&stubGenerator{configured: true}, testLogger())

	tests := []map[string]string{
		{"task": "задание"},
		{"user_answer": "ответ"},
		{},
	}
	for i, body := range tests {
		rr := httptest.NewRecorder()
		h.CheckAnswer(rr, jsonRequest("/api/check-practical-answer", body))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Case %d: expected 400, got %d", i, rr.Code)
		}
	}
}

func TestCheckPracticalAnswer_Success(t *testing.T) {
	ai := &stubGenerator{
		configured: true,
		replies:    []string{`Вот оценка: {"is_correct": true, "feedback": "Отличный ответ"}`},
	}
	h := NewPracticalHandler(ai, testLogger())

	rr := httptest.NewRecorder()
	h.CheckAnswer(rr, jsonRequest("/api/check-practical-answer", map[string]string{
		"task":        "Опишите фотосинтез",
		"user_answer": "Процесс преобразования света",
	}))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	resp := decodeEnvelope(t, rr)
	if resp["is_correct"] != true {
		t.Errorf("Expected is_correct=true, got %v", resp["is_correct"])
	}
	if resp["feedback"] != "Отличный ответ" {
		t.Errorf("Unexpected feedback: %v", resp["feedback"])
	}
}

func TestCheckPracticalAnswer_UnparseableReply(t *testing.T) {
	ai := &stubGenerator{configured: true, replies: []string{"просто текст без JSON"}}
	h := NewPracticalHandler(ai, testLogger())

	rr := httptest.NewRecorder()
	h.CheckAnswer(rr, jsonRequest("/api/check-practical-answer", map[string]string{
		"task":        "задание",
		"user_answer": "ответ",
	}))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rr.Code)
	}
}

func TestRunCode_LanguageValidation(t *testing.T) {
	h := NewPracticalHandler(&stubGenerator{}, testLogger())

	tests := []struct {
		language string
		want     int
	}{
		{"html", http.StatusOK},
		{"css", http.StatusOK},
		{"javascript", http.StatusOK},
		{"python", http.StatusBadRequest},
		{"go", http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.language, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.RunCode(rr, jsonRequest("/api/run-code", map[string]string{
				"user_code": "<h1>Привет</h1>",
				"language":  tc.language,
			}))
			if rr.Code != tc.want {
				t.Errorf("Expected %d, got %d", tc.want, rr.Code)
			}
		})
	}
}

func TestRunCode_EchoesCode(t *testing.T) {
	h := NewPracticalHandler(&stubGenerator{}, testLogger())

	rr := httptest.NewRecorder()
	h.RunCode(rr, jsonRequest("/api/run-code", map[string]string{"user_code": "<p>ok</p>"}))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	resp := decodeEnvelope(t, rr)
	if resp["can_run"] != true {
		t.Errorf("Expected can_run=true, got %v", resp["can_run"])
	}
	if resp["code"] != "<p>ok</p>" {
		t.Errorf("Expected code echoed back, got %v", resp["code"])
	}
	if resp["language"] != "html" {
		t.Errorf("Expected default language html, got %v", resp["language"])
	}
}

// ─── Quiz Handler Tests ───

func quizReply(questionCount int) string {
	questions := make([]map[string]interface{}, questionCount)
	for i := range questions {
		questions[i] = map[string]interface{}{
			"type":          "multiple_choice",
			"question":      fmt.Sprintf("Вопрос %d?", i+1),
			"options":       []string{"а", "б", "в", "г"},
			"correctAnswer": 0,
			"explanation":   "Пояснение",
		}
	}
	data, _ := json.Marshal(map[string]interface{}{
		"title":     "Тест по материалу",
		"questions": questions,
	})
	return string(data)
}

func multipartUpload(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	part.Write([]byte(content))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/generate-quiz", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestGenerateQuiz_FromTextFile(t *testing.T) {
	ai := &stubGenerator{configured: true, replies: []string{quizReply(15)}}
	h := NewQuizHandler(ai, services.NewFileExtractService(), testLogger())

	rr := httptest.NewRecorder()
	h.GenerateFromFile(rr, multipartUpload(t, "lecture.txt", "Учебный материал о клетках."))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeEnvelope(t, rr)
	quizData := resp["quiz"].(map[string]interface{})
	if quizData["title"] != "Тест по материалу" {
		t.Errorf("Unexpected title: %v", quizData["title"])
	}
	if got := len(quizData["questions"].([]interface{})); got != 15 {
		t.Errorf("Expected 15 questions, got %d", got)
	}
}

func TestGenerateQuiz_NoFile(t *testing.T) {
	h := NewQuizHandler(&stubGenerator{configured: true}, services.NewFileExtractService(), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/generate-quiz", nil)
	rr := httptest.NewRecorder()
	h.GenerateFromFile(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rr.Code)
	}
}

func TestGenerateQuiz_UnsupportedFormat(t *testing.T) {
	h := NewQuizHandler(&stubGenerator{configured: true}, services.NewFileExtractService(), testLogger())

	rr := httptest.NewRecorder()
	h.GenerateFromFile(rr, multipartUpload(t, "image.png", "binary"))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rr.Code)
	}
	resp := decodeEnvelope(t, rr)
	if resp["error"] != "Неподдерживаемый формат файла" {
		t.Errorf("Unexpected error: %v", resp["error"])
	}
}

func TestGenerateQuiz_TooFewQuestions(t *testing.T) {
	ai := &stubGenerator{configured: true, replies: []string{quizReply(2)}}
	h := NewQuizHandler(ai, services.NewFileExtractService(), testLogger())

	rr := httptest.NewRecorder()
	h.GenerateFromFile(rr, multipartUpload(t, "lecture.txt", "Материал."))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rr.Code)
	}
}

// ─── Chat Handler Tests ───

func TestChat_CannedReplyWithoutModelCall(t *testing.T) {
	ai := &stubGenerator{configured: false}
	h := NewChatHandler(ai, testLogger())

	rr := httptest.NewRecorder()
	h.Send(rr, jsonRequest("/api/chat", map[string]string{"message": "Как создать курс по химии?"}))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if ai.calls != 0 {
		t.Errorf("Expected no model call for canned reply, got %d", ai.calls)
	}
	resp := decodeEnvelope(t, rr)
	msg, _ := resp["message"].(string)
	if !strings.Contains(msg, "Электронный курс") {
		t.Errorf("Expected course navigation reply, got %q", msg)
	}
}

func TestChat_EmptyMessage(t *testing.T) {
	h := NewChatHandler(&stubGenerator{configured: true}, testLogger())

	rr := httptest.NewRecorder()
	h.Send(rr, jsonRequest("/api/chat", map[string]string{"message": "   "}))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rr.Code)
	}
}

func TestChat_ModelReply(t *testing.T) {
	ai := &stubGenerator{configured: true, replies: []string{"  Попробуйте начать с основ. "}}
	h := NewChatHandler(ai, testLogger())

	rr := httptest.NewRecorder()
	h.Send(rr, jsonRequest("/api/chat", map[string]string{"message": "С чего начать изучение биологии?"}))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	resp := decodeEnvelope(t, rr)
	if resp["message"] != "Попробуйте начать с основ." {
		t.Errorf("Expected trimmed model reply, got %q", resp["message"])
	}
}

// ─── Assignments Handler Tests ───

func TestGenerateAssignments_MarkerReply(t *testing.T) {
	reply := "ЗАДАНИЕ 1: Конспект\nСоставьте конспект главы.\n\nЗАДАНИЕ 2: Задача\nРешите задачу из примера."
	ai := &stubGenerator{configured: true, replies: []string{reply}}
	h := NewAssignmentsHandler(ai, testLogger())

	rr := httptest.NewRecorder()
	h.Generate(rr, jsonRequest("/api/generate-assignments", map[string]interface{}{
		"pdf_text": "материал",
		"count":    5,
	}))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	resp := decodeEnvelope(t, rr)
	if resp["count"] != float64(2) {
		t.Errorf("Expected count 2, got %v", resp["count"])
	}
}

func TestGeneratePractical_DemoFallback(t *testing.T) {
	ai := &stubGenerator{configured: true, replies: []string{"ответ без нужного JSON"}}
	h := NewAssignmentsHandler(ai, testLogger())

	rr := httptest.NewRecorder()
	h.GeneratePractical(rr, jsonRequest("/api/generate-practical-assignments", map[string]string{
		"prompt": "создай задания",
	}))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected demo fallback 200, got %d", rr.Code)
	}
	resp := decodeEnvelope(t, rr)
	assignments := resp["assignments"].([]interface{})
	if len(assignments) != 1 {
		t.Fatalf("Expected 1 demo assignment, got %d", len(assignments))
	}
	first := assignments[0].(map[string]interface{})
	if first["title"] != "Базовое упражнение" {
		t.Errorf("Expected demo data, got %v", first["title"])
	}
}

func TestGenerateLaboratory_ParsedReply(t *testing.T) {
	reply := `{"laboratories": [{"id": 1, "title": "Лаб. работа: осмос", "objective": "Изучить осмос",
		"hypothesis": "Вода движется через мембрану", "duration": "1 час",
		"materials": ["картофель", "соль"], "procedures": [{"step": 1, "description": "Подготовка", "details": "Нарежьте образцы"}],
		"expectedResults": "Изменение массы образцов"}]}`
	ai := &stubGenerator{configured: true, replies: []string{reply}}
	h := NewAssignmentsHandler(ai, testLogger())

	rr := httptest.NewRecorder()
	h.GenerateLaboratory(rr, jsonRequest("/api/generate-laboratory-assignments", map[string]string{
		"prompt": "создай лабораторные",
	}))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	resp := decodeEnvelope(t, rr)
	labs := resp["laboratories"].([]interface{})
	if len(labs) != 1 {
		t.Fatalf("Expected 1 laboratory, got %d", len(labs))
	}
}

func TestGenerateAssignments_EmptyPrompt(t *testing.T) {
	h := NewAssignmentsHandler(&stubGenerator{configured: true}, testLogger())

	rr := httptest.NewRecorder()
	h.GeneratePractical(rr, jsonRequest("/api/generate-practical-assignments", map[string]string{}))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rr.Code)
	}
}

// ─── Course Handler Tests ───

func TestExtractCourseInfo_DefaultOnBadReply(t *testing.T) {
	ai := &stubGenerator{configured: true, replies: []string{"не json"}}
	h := NewCourseHandler(ai, testLogger())

	rr := httptest.NewRecorder()
	h.ExtractInfo(rr, jsonRequest("/api/extract-course-info", map[string]string{"content": "материал"}))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	resp := decodeEnvelope(t, rr)
	info := resp["courseInfo"].(map[string]interface{})
	if info["courseName"] != "Неизвестный курс" {
		t.Errorf("Expected default course info, got %v", info["courseName"])
	}
}

func TestGenerateTheory_ReturnsTrimmedText(t *testing.T) {
	ai := &stubGenerator{configured: true, replies: []string{"\n## 📖 Введение\n\nТекст теории.\n"}}
	h := NewCourseHandler(ai, testLogger())

	rr := httptest.NewRecorder()
	h.GenerateTheory(rr, jsonRequest("/api/generate-theory", map[string]interface{}{
		"content":    "материал",
		"pageNumber": 2,
		"totalPages": 4,
	}))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	resp := decodeEnvelope(t, rr)
	if resp["theory"] != "## 📖 Введение\n\nТекст теории." {
		t.Errorf("Unexpected theory payload: %q", resp["theory"])
	}
}

// ─── Diagnostics Handler Tests ───

func TestCheckAPI_NoKey(t *testing.T) {
	h := NewDiagnosticsHandler(&stubProber{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/check-api", nil)
	rr := httptest.NewRecorder()
	h.CheckAPI(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	resp := decodeEnvelope(t, rr)
	if resp["api_key_configured"] != false {
		t.Errorf("Expected api_key_configured=false, got %v", resp["api_key_configured"])
	}
}

func TestDiagnostics_NoKey(t *testing.T) {
	h := NewDiagnosticsHandler(&stubProber{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/diagnostics", nil)
	rr := httptest.NewRecorder()
	h.Run(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rr.Code)
	}
}

func TestDiagnostics_AllModelsWorking(t *testing.T) {
	h := NewDiagnosticsHandler(&stubProber{stubGenerator: stubGenerator{configured: true}}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/diagnostics", nil)
	rr := httptest.NewRecorder()
	h.Run(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	resp := decodeEnvelope(t, rr)
	if resp["success"] != true {
		t.Errorf("Expected success=true, got %v", resp["success"])
	}
	working := resp["working_models"].([]interface{})
	if len(working) != len(services.DiagnosticModels) {
		t.Errorf("Expected all %d models working, got %d", len(services.DiagnosticModels), len(working))
	}
	rec, _ := resp["recommendation"].(string)
	if !strings.Contains(rec, services.DiagnosticModels[0]) {
		t.Errorf("Expected first working model recommended, got %q", rec)
	}
}

// ─── Certificate Handler Tests ───

// Every generation endpoint must short-circuit with the same envelope
// when no API key is present, instead of reaching the model client.
func TestGenerationEndpoints_Unconfigured(t *testing.T) {
	extract := services.NewFileExtractService()

	cases := []struct {
		name string
		call func(ai *stubGenerator) *httptest.ResponseRecorder
	}{
		{"quiz from file", func(ai *stubGenerator) *httptest.ResponseRecorder {
			rr := httptest.NewRecorder()
			NewQuizHandler(ai, extract, testLogger()).
				GenerateFromFile(rr, multipartUpload(t, "lecture.txt", "Материал."))
			return rr
		}},
		{"chat", func(ai *stubGenerator) *httptest.ResponseRecorder {
			rr := httptest.NewRecorder()
			NewChatHandler(ai, testLogger()).
				Send(rr, jsonRequest("/api/chat", map[string]string{"message": "Что такое фотосинтез?"}))
			return rr
		}},
		{"assignments", func(ai *stubGenerator) *httptest.ResponseRecorder {
			rr := httptest.NewRecorder()
			NewAssignmentsHandler(ai, testLogger()).
				Generate(rr, jsonRequest("/api/generate-assignments", map[string]string{"pdf_text": "Текст."}))
			return rr
		}},
		{"practical assignments", func(ai *stubGenerator) *httptest.ResponseRecorder {
			rr := httptest.NewRecorder()
			NewAssignmentsHandler(ai, testLogger()).
				GeneratePractical(rr, jsonRequest("/api/generate-practical-assignments", map[string]string{"prompt": "Создай задания"}))
			return rr
		}},
		{"laboratory", func(ai *stubGenerator) *httptest.ResponseRecorder {
			rr := httptest.NewRecorder()
			NewAssignmentsHandler(ai, testLogger()).
				GenerateLaboratory(rr, jsonRequest("/api/generate-laboratory-assignments", map[string]string{"prompt": "Создай лабораторные"}))
			return rr
		}},
		{"course info", func(ai *stubGenerator) *httptest.ResponseRecorder {
			rr := httptest.NewRecorder()
			NewCourseHandler(ai, testLogger()).
				ExtractInfo(rr, jsonRequest("/api/extract-course-info", map[string]string{"content": "Лекция."}))
			return rr
		}},
		{"theory", func(ai *stubGenerator) *httptest.ResponseRecorder {
			rr := httptest.NewRecorder()
			NewCourseHandler(ai, testLogger()).
				GenerateTheory(rr, jsonRequest("/api/generate-theory", map[string]interface{}{"content": "Лекция."}))
			return rr
		}},
		{"check code", func(ai *stubGenerator) *httptest.ResponseRecorder {
			rr := httptest.NewRecorder()
			NewPracticalHandler(ai, testLogger()).
				CheckCode(rr, jsonRequest("/api/check-code", map[string]string{"user_code": "print(1)", "task": "Вывести 1"}))
			return rr
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ai := &stubGenerator{configured: false}
			rr := tc.call(ai)

			if rr.Code != http.StatusInternalServerError {
				t.Fatalf("Expected 500, got %d: %s", rr.Code, rr.Body.String())
			}
			resp := decodeEnvelope(t, rr)
			if resp["error"] != "API ключ не настроен" {
				t.Errorf("Unexpected error message: %v", resp["error"])
			}
			if ai.calls != 0 {
				t.Errorf("Expected no model calls, got %d", ai.calls)
			}
		})
	}
}

func TestGenerateCertificate_ExplicitEmptyName(t *testing.T) {
	h := NewCertificateHandler(services.NewCertificateService("./no-such-font.ttf"), testLogger())

	rr := httptest.NewRecorder()
	h.Generate(rr, jsonRequest("/api/generate-certificate", map[string]string{
		"student_name": "",
		"course_title": "Биология",
	}))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for explicitly empty name, got %d", rr.Code)
	}
}

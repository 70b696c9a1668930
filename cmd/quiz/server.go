package main

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"mainframequiz"
)

const sessionCookie = "quiz-session"

// Server is the web presentation layer over the generation pipeline and the
// quiz session state machine. One quiz run is active per browser session;
// starting a new one discards the previous run.
type Server struct {
	cfg       *mainframequiz.Config
	provider  mainframequiz.Provider
	storage   *mainframequiz.ResultStorage
	db        *mainframequiz.ResultDB
	store     *sessions.CookieStore
	templates map[string]*template.Template

	mu      sync.Mutex
	quizzes map[string]*activeQuiz
}

// activeQuiz holds one in-flight or in-progress quiz run. All fields are
// guarded by Server.mu.
type activeQuiz struct {
	id         string
	meta       mainframequiz.ReportMeta
	session    *mainframequiz.Session
	lowYield   bool
	generating bool
	genErr     error
	saved      bool
	reportPath string
}

func newServer(cfg *mainframequiz.Config, provider mainframequiz.Provider, storage *mainframequiz.ResultStorage, db *mainframequiz.ResultDB) (*Server, error) {
	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"letter": func(i int) string {
			return string(rune('A' + i))
		},
	}

	pages := []string{"home", "generating", "question", "results", "history", "error"}
	templates := make(map[string]*template.Template)
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(funcMap).ParseFiles("templates/base.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		templates[page] = tmpl
	}

	return &Server{
		cfg:       cfg,
		provider:  provider,
		storage:   storage,
		db:        db,
		store:     sessions.NewCookieStore([]byte(cfg.SessionKey)),
		templates: templates,
		quizzes:   make(map[string]*activeQuiz),
	}, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome)
	mux.HandleFunc("/quiz/new", s.handleNewQuiz)
	mux.HandleFunc("/quiz/", s.handleQuiz)
	mux.HandleFunc("/history", s.handleHistory)
	return mux
}

func (s *Server) render(w http.ResponseWriter, page string, data interface{}) {
	if err := s.templates[page].ExecuteTemplate(w, "base.html", data); err != nil {
		mainframequiz.Logger().Error("template error", zap.String("page", page), zap.Error(err))
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

func (s *Server) renderError(w http.ResponseWriter, message string) {
	s.render(w, "error", map[string]interface{}{"Message": message})
}

type topicView struct {
	Name      mainframequiz.Topic
	Subtopics []string
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	var topics []topicView
	for _, topic := range mainframequiz.Topics() {
		topics = append(topics, topicView{Name: topic, Subtopics: mainframequiz.Subtopics(topic)})
	}

	s.render(w, "home", map[string]interface{}{
		"Topics":        topics,
		"Difficulties":  mainframequiz.Difficulties(),
		"ProviderReady": s.provider != nil,
		"MinCount":      mainframequiz.MinRecommendedCount,
		"MaxCount":      mainframequiz.MaxRecommendedCount,
	})
}

func (s *Server) handleNewQuiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	studentName := strings.TrimSpace(r.FormValue("student_name"))
	if studentName == "" {
		s.renderError(w, "Please enter your name.")
		return
	}

	count, err := strconv.Atoi(r.FormValue("count"))
	if err != nil || count <= 0 {
		count = 10
	}

	req := mainframequiz.GenerationRequest{
		Topic:      mainframequiz.Topic(r.FormValue("topic")),
		Subtopic:   r.FormValue("subtopic"),
		Count:      count,
		Difficulty: mainframequiz.Difficulty(r.FormValue("difficulty")),
	}

	quizID := newRunID()
	quiz := &activeQuiz{
		id:         quizID,
		generating: true,
		meta: mainframequiz.ReportMeta{
			StudentName: studentName,
			Topic:       req.Topic,
			Subtopic:    req.Subtopic,
			Difficulty:  req.Difficulty,
		},
	}

	cookie, _ := s.store.Get(r, sessionCookie)

	s.mu.Lock()
	// Starting a new generation discards any prior run for this browser.
	if prev, ok := cookie.Values["quiz_id"].(string); ok {
		delete(s.quizzes, prev)
	}
	s.quizzes[quizID] = quiz
	s.mu.Unlock()

	cookie.Values["quiz_id"] = quizID
	if err := cookie.Save(r, w); err != nil {
		mainframequiz.Logger().Error("session save error", zap.Error(err))
	}

	go s.generate(quiz, req)

	http.Redirect(w, r, "/quiz/"+quizID, http.StatusSeeOther)
}

// generate runs the pipeline for one quiz in the background and loads the
// session when it succeeds.
func (s *Server) generate(quiz *activeQuiz, req mainframequiz.GenerationRequest) {
	generator := mainframequiz.NewGenerator(s.provider)
	transcript, err := mainframequiz.NewTranscriptLogger("log", quiz.id, req)
	if err != nil {
		mainframequiz.Logger().Warn("transcript unavailable", zap.Error(err))
	} else {
		generator.SetTranscript(transcript)
		defer transcript.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	generated, err := generator.Generate(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	quiz.generating = false
	if err != nil {
		quiz.genErr = err
		return
	}

	session := mainframequiz.NewSession()
	if err := session.Load(generated.Questions); err != nil {
		quiz.genErr = err
		return
	}
	quiz.session = session
	quiz.lowYield = generated.LowYield
	quiz.meta.Difficulty = generated.Request.Difficulty
}

// lookupQuiz resolves the quiz in the URL and checks it belongs to the
// browser's cookie session.
func (s *Server) lookupQuiz(w http.ResponseWriter, r *http.Request, quizID string) *activeQuiz {
	cookie, _ := s.store.Get(r, sessionCookie)
	owned, _ := cookie.Values["quiz_id"].(string)
	if owned != quizID {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil
	}

	s.mu.Lock()
	quiz, ok := s.quizzes[quizID]
	s.mu.Unlock()
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil
	}
	return quiz
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/quiz/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	quizID := parts[0]

	quiz := s.lookupQuiz(w, r, quizID)
	if quiz == nil {
		return
	}

	if len(parts) == 1 {
		s.handleQuizStatus(w, r, quiz)
		return
	}

	switch parts[1] {
	case "question":
		s.handleQuestion(w, r, quiz)
	case "answer":
		s.handleAnswer(w, r, quiz)
	case "results":
		s.handleResults(w, r, quiz)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleQuizStatus(w http.ResponseWriter, r *http.Request, quiz *activeQuiz) {
	s.mu.Lock()
	generating, genErr := quiz.generating, quiz.genErr
	s.mu.Unlock()

	if generating {
		s.render(w, "generating", map[string]interface{}{"QuizID": quiz.id})
		return
	}
	if genErr != nil {
		s.renderError(w, genErr.Error())
		return
	}
	http.Redirect(w, r, "/quiz/"+quiz.id+"/question", http.StatusSeeOther)
}

func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request, quiz *activeQuiz) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quiz.session == nil {
		http.Redirect(w, r, "/quiz/"+quiz.id, http.StatusSeeOther)
		return
	}
	if quiz.session.State() == mainframequiz.StateCompleted {
		http.Redirect(w, r, "/quiz/"+quiz.id+"/results", http.StatusSeeOther)
		return
	}

	q, err := quiz.session.Current()
	if err != nil {
		s.renderError(w, err.Error())
		return
	}

	selected := -1
	if idx, ok := quiz.session.Selected(); ok {
		selected = idx
	}

	s.render(w, "question", map[string]interface{}{
		"QuizID":    quiz.id,
		"Num":       quiz.session.Cursor() + 1,
		"Total":     quiz.session.Len(),
		"Question":  q.Text,
		"Options":   q.Options,
		"Selected":  selected,
		"CanGoBack": quiz.session.Cursor() > 0,
		"LowYield":  quiz.lowYield,
	})
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request, quiz *activeQuiz) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if quiz.session == nil {
		http.Redirect(w, r, "/quiz/"+quiz.id, http.StatusSeeOther)
		return
	}

	if r.FormValue("action") == "back" {
		if err := quiz.session.Retreat(); err != nil {
			mainframequiz.Logger().Debug("retreat refused", zap.Error(err))
		}
		http.Redirect(w, r, "/quiz/"+quiz.id+"/question", http.StatusSeeOther)
		return
	}

	answer, err := strconv.Atoi(r.FormValue("answer"))
	if err != nil {
		s.renderError(w, "Please select an answer.")
		return
	}
	if err := quiz.session.Answer(answer); err != nil {
		s.renderError(w, err.Error())
		return
	}
	if err := quiz.session.Advance(); err != nil {
		s.renderError(w, err.Error())
		return
	}

	if quiz.session.State() == mainframequiz.StateCompleted {
		http.Redirect(w, r, "/quiz/"+quiz.id+"/results", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/quiz/"+quiz.id+"/question", http.StatusSeeOther)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request, quiz *activeQuiz) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quiz.session == nil || quiz.session.State() != mainframequiz.StateCompleted {
		http.Redirect(w, r, "/quiz/"+quiz.id, http.StatusSeeOther)
		return
	}

	result, err := mainframequiz.Score(quiz.session)
	if err != nil {
		s.renderError(w, err.Error())
		return
	}

	// Persist once; revisiting the results page must not duplicate reports.
	if !quiz.saved {
		quiz.meta.TakenAt = time.Now()
		path, err := s.storage.Save(quiz.meta, result)
		if err != nil {
			s.renderError(w, err.Error())
			return
		}
		quiz.reportPath = path
		if _, err := s.db.SaveResult(quiz.meta, result); err != nil {
			s.renderError(w, err.Error())
			return
		}
		quiz.saved = true
	}

	s.render(w, "results", map[string]interface{}{
		"Meta":       quiz.meta,
		"Result":     result,
		"Remark":     mainframequiz.GradeRemark(result.Grade),
		"ReportPath": quiz.reportPath,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	results, err := s.db.GetResults(50)
	if err != nil {
		s.renderError(w, err.Error())
		return
	}
	s.render(w, "history", map[string]interface{}{"Results": results})
}

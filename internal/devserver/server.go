// Package devserver is an in-memory stand-in for the Arogya backend,
// used for local development and for exercising the client's offline
// replay end to end. State lives in memory and is lost on restart.
package devserver

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 24 * time.Hour

type event struct {
	ID   string   `json:"id"`
	Name string   `json:"event_name"`
	Keys []string `json:"keys,omitempty"`
	Data []any    `json:"data"`
}

type appointment struct {
	ID          string `json:"id"`
	PatientName string `json:"patient_name"`
	ScheduledAt string `json:"scheduled_at"`
}

type storedReply struct {
	code int
	body []byte
}

// Server holds the mock backend state.
type Server struct {
	secret []byte

	mu           sync.Mutex
	users        map[string]string
	events       map[string]*event
	eventOrder   []string
	appointments map[string]appointment
	vitals       map[string][]map[string]any
	replies      map[string]storedReply
	nextID       int
}

// NewServer seeds a mock backend with one demo user and two
// appointments. secret signs access tokens.
func NewServer(secret []byte) *Server {
	return &Server{
		secret: secret,
		users:  map[string]string{"doctor@example.org": "changeme"},
		events: map[string]*event{},
		appointments: map[string]appointment{
			"apt_1": {ID: "apt_1", PatientName: "Asha Rao", ScheduledAt: "2026-09-01T09:00:00Z"},
			"apt_2": {ID: "apt_2", PatientName: "Vikram Shah", ScheduledAt: "2026-09-01T10:30:00Z"},
		},
		vitals:  map[string][]map[string]any{},
		replies: map[string]storedReply{},
	}
}

// Router builds the gin engine with all mock routes mounted under /api/v1.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	v1 := r.Group("/api/v1")
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	v1.POST("/auth/login/access-token", s.login)

	authed := v1.Group("", s.authRequired())
	authed.GET("/auth/me", s.me)

	mutating := authed.Group("", s.idempotency())
	mutating.POST("/events/", s.createEvent)
	mutating.PATCH("/events/:id/append", s.appendEvent)
	mutating.POST("/appointments/:id/vitals", s.addVitals)
	mutating.POST("/agent/analyze", s.analyze)
	mutating.POST("/agent/populate-event-data", s.populateEventData)
	mutating.POST("/agent/summarize-medical-report", s.summarizeReport)

	authed.GET("/events/", s.listEvents)
	authed.GET("/events/:id", s.getEvent)
	authed.GET("/appointments/", s.listAppointments)
	authed.GET("/appointments/:id", s.getAppointment)
	authed.GET("/appointments/:id/vitals", s.getVitals)
	authed.GET("/agent/appointments/:id/chat", s.chatHistory)

	return r
}

func (s *Server) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	s.mu.Lock()
	want, ok := s.users[username]
	s.mu.Unlock()
	if !ok || want != password {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "incorrect email or password"})
		return
	}

	claims := jwt.MapClaims{
		"sub": username,
		"exp": jwt.NewNumericDate(time.Now().Add(tokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": signed, "token_type": "bearer"})
}

func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "not authenticated"})
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid token"})
			return
		}

		sub, _ := token.Claims.GetSubject()
		c.Set("email", sub)
		c.Next()
	}
}

// idempotency replays the stored first response for a repeated
// Idempotency-Key, so the client's queue drain can safely retry.
func (s *Server) idempotency() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Idempotency-Key")
		if key == "" {
			c.Next()
			return
		}

		s.mu.Lock()
		prev, seen := s.replies[key]
		s.mu.Unlock()
		if seen {
			c.Data(prev.code, "application/json; charset=utf-8", prev.body)
			c.Abort()
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		s.mu.Lock()
		s.replies[key] = storedReply{code: w.Status(), body: w.buf.Bytes()}
		s.mu.Unlock()
	}
}

type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(str string) (int, error) {
	w.buf.WriteString(str)
	return w.ResponseWriter.WriteString(str)
}

func (s *Server) me(c *gin.Context) {
	email := c.GetString("email")
	c.JSON(http.StatusOK, gin.H{
		"id":        "usr_1",
		"email":     email,
		"full_name": "Demo Doctor",
		"role":      "doctor",
	})
}

func (s *Server) createEvent(c *gin.Context) {
	var in struct {
		Name string   `json:"event_name" binding:"required"`
		Keys []string `json:"keys"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	s.nextID++
	ev := &event{ID: fmt.Sprintf("evt_%d", s.nextID), Name: in.Name, Keys: in.Keys, Data: []any{}}
	s.events[ev.ID] = ev
	s.eventOrder = append(s.eventOrder, ev.ID)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, ev)
}

func (s *Server) listEvents(c *gin.Context) {
	s.mu.Lock()
	out := make([]*event, 0, len(s.eventOrder))
	for _, id := range s.eventOrder {
		out = append(out, s.events[id])
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, out)
}

func (s *Server) getEvent(c *gin.Context) {
	s.mu.Lock()
	ev, ok := s.events[c.Param("id")]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "event not found"})
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (s *Server) appendEvent(c *gin.Context) {
	var in struct {
		Data any `json:"data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	ev, ok := s.events[c.Param("id")]
	if ok {
		ev.Data = append(ev.Data, in.Data)
	}
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "event not found"})
		return
	}

	c.JSON(http.StatusOK, ev)
}

func (s *Server) listAppointments(c *gin.Context) {
	s.mu.Lock()
	out := make([]appointment, 0, len(s.appointments))
	for _, a := range s.appointments {
		out = append(out, a)
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, out)
}

func (s *Server) getAppointment(c *gin.Context) {
	s.mu.Lock()
	a, ok := s.appointments[c.Param("id")]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "appointment not found"})
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) addVitals(c *gin.Context) {
	id := c.Param("id")

	var reading map[string]any
	if err := c.ShouldBindJSON(&reading); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	_, ok := s.appointments[id]
	if ok {
		s.nextID++
		reading["id"] = fmt.Sprintf("vit_%d", s.nextID)
		s.vitals[id] = append(s.vitals[id], reading)
	}
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "appointment not found"})
		return
	}

	c.JSON(http.StatusCreated, reading)
}

func (s *Server) getVitals(c *gin.Context) {
	s.mu.Lock()
	readings := s.vitals[c.Param("id")]
	s.mu.Unlock()
	if readings == nil {
		readings = []map[string]any{}
	}
	c.JSON(http.StatusOK, readings)
}

func (s *Server) analyze(c *gin.Context) {
	var in struct {
		Question    string `json:"question" binding:"required"`
		DocumentURL string `json:"document_url"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": "mock analysis of " + in.Question})
}

func (s *Server) populateEventData(c *gin.Context) {
	var in struct {
		ImageURL string   `json:"image_url" binding:"required"`
		Keys     []string `json:"keys"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	data := gin.H{}
	for _, k := range in.Keys {
		data[k] = "mock-" + k
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func (s *Server) summarizeReport(c *gin.Context) {
	var in struct {
		ImageURL string `json:"image_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": "mock summary of " + in.ImageURL})
}

func (s *Server) chatHistory(c *gin.Context) {
	c.JSON(http.StatusOK, []gin.H{})
}

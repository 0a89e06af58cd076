package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"quiz-royale/internal/game"
)

// Server is the operator-facing HTTP surface: question management, live room
// inspection and the leaderboard. It is meant to stay behind a firewall.
type Server struct {
	db     *gorm.DB
	engine *game.Engine
	router *gin.Engine
}

func New(conn *gorm.DB, engine *game.Engine) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	s := &Server{db: conn, engine: engine, router: router}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/healthz", s.handleHealth)
	api := s.router.Group("/api")
	api.GET("/rooms", s.handleRoomsList)
	api.GET("/questions", s.handleQuestionsList)
	api.POST("/questions", s.handleQuestionCreate)
	api.DELETE("/questions/:id", s.handleQuestionDelete)
	api.GET("/leaderboard", s.handleLeaderboard)
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requireDB guards the endpoints that cannot work without a database.
func (s *Server) requireDB(c *gin.Context) bool {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database not configured"})
		return false
	}
	return true
}

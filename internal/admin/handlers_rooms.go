package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quiz-royale/internal/db"
)

type roomResponse struct {
	ID         int64  `json:"id"`
	Visibility string `json:"visibility"`
	Phase      string `json:"phase"`
	Occupancy  int    `json:"occupancy"`
	Round      int    `json:"round,omitempty"`
}

// handleRoomsList reads the live registry, not the database: the registry is
// the source of truth for running games.
func (s *Server) handleRoomsList(c *gin.Context) {
	summaries := s.engine.Rooms()
	out := make([]roomResponse, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, roomResponse{
			ID:         summary.ID,
			Visibility: summary.Visibility,
			Phase:      summary.Phase,
			Occupancy:  summary.Occupancy,
			Round:      summary.Round,
		})
	}
	c.JSON(http.StatusOK, gin.H{"rooms": out})
}

type leaderboardEntry struct {
	PlayerID int64 `json:"player_id"`
	Wins     int   `json:"wins"`
	Score    int   `json:"score"`
}

func (s *Server) handleLeaderboard(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	players, err := db.LeaderboardTop(s.db, 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leaderboard"})
		return
	}
	out := make([]leaderboardEntry, 0, len(players))
	for _, player := range players {
		out = append(out, leaderboardEntry{PlayerID: player.ID, Wins: player.Wins, Score: player.Score})
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": out})
}

package db

import "gorm.io/gorm"

// EnsurePlayer creates a profile row for the id on first contact.
func EnsurePlayer(conn *gorm.DB, playerID int64) (Player, error) {
	player := Player{ID: playerID}
	err := conn.FirstOrCreate(&player, Player{ID: playerID}).Error
	return player, err
}

func GetPlayer(conn *gorm.DB, playerID int64) (Player, error) {
	var player Player
	err := conn.First(&player, "id = ?", playerID).Error
	return player, err
}

// LeaderboardTop returns the best players ordered by wins, then score.
func LeaderboardTop(conn *gorm.DB, limit int) ([]Player, error) {
	var players []Player
	err := conn.Order("wins DESC, score DESC").Limit(limit).Find(&players).Error
	return players, err
}

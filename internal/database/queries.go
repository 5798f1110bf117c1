// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package database

// Analytics statements. Column aliases must match the schema field names of
// the endpoint that runs them.
const (
	// SQLPlayerScores lists every player with each of their scores. Players
	// without scores appear once with null game_id and score.
	SQLPlayerScores = `SELECT players.id, players.name, players.join_date, scores.game_id, scores.score
FROM players
LEFT JOIN scores ON players.id = scores.player_id
ORDER BY players.id, scores.game_id NULLS FIRST, scores.id`

	// SQLTopPlayers returns the three players with the highest total score.
	SQLTopPlayers = `SELECT players.name, SUM(scores.score) AS total_score
FROM players
JOIN scores ON players.id = scores.player_id
GROUP BY players.name
ORDER BY total_score DESC, players.name
LIMIT 3`

	// SQLInactivePlayers returns players with no score rows.
	SQLInactivePlayers = `SELECT players.name, COUNT(scores.game_id) AS games_played
FROM players
LEFT JOIN scores ON players.id = scores.player_id
GROUP BY players.name
HAVING COUNT(scores.game_id) = 0
ORDER BY players.name`

	// SQLPopularGenres ranks genres by the number of distinct players with a score.
	SQLPopularGenres = `SELECT games.genre, COUNT(DISTINCT scores.player_id) AS num_players
FROM games
LEFT JOIN scores ON games.id = scores.game_id
GROUP BY games.genre
ORDER BY num_players DESC, games.genre`

	// SQLRecentPlayers returns players who joined in the last 30 days.
	SQLRecentPlayers = `SELECT id, name, join_date
FROM players
WHERE join_date >= CURRENT_DATE - INTERVAL '30 days'
ORDER BY join_date DESC, id`

	// SQLFavoriteGames returns each player's highest-scoring game. Ties go to
	// the lower game id.
	SQLFavoriteGames = `SELECT DISTINCT ON (players.id)
       players.id AS player_id, players.name, games.title AS game_title, scores.score AS high_score
FROM players
JOIN scores ON players.id = scores.player_id
JOIN games ON games.id = scores.game_id
ORDER BY players.id, scores.score DESC, games.id`
)

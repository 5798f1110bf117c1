// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package schema

// Row schemas, one per endpoint.
var (
	// PlayerScore is one player/score pair from the players-to-scores left
	// join. Players without scores carry null game and score fields.
	PlayerScore = RowSchema{
		Name: "PlayerScore",
		Fields: []Field{
			{Name: "id", Type: TypeInteger},
			{Name: "name", Type: TypeText, Rules: "required"},
			{Name: "join_date", Type: TypeDate},
			{Name: "game_id", Type: TypeInteger, Nullable: true},
			{Name: "score", Type: TypeInteger, Nullable: true},
		},
	}

	TopPlayer = RowSchema{
		Name: "TopPlayer",
		Fields: []Field{
			{Name: "name", Type: TypeText, Rules: "required"},
			{Name: "total_score", Type: TypeBigint},
		},
	}

	// InactivePlayer rows always have games_played of zero.
	InactivePlayer = RowSchema{
		Name: "InactivePlayer",
		Fields: []Field{
			{Name: "name", Type: TypeText, Rules: "required"},
			{Name: "games_played", Type: TypeBigint, Rules: "eq=0"},
		},
	}

	PopularGenre = RowSchema{
		Name: "PopularGenre",
		Fields: []Field{
			{Name: "genre", Type: TypeText},
			{Name: "num_players", Type: TypeBigint, Rules: "gte=0"},
		},
	}

	RecentPlayer = RowSchema{
		Name: "RecentPlayer",
		Fields: []Field{
			{Name: "id", Type: TypeInteger},
			{Name: "name", Type: TypeText, Rules: "required"},
			{Name: "join_date", Type: TypeDate},
		},
	}

	FavoriteGame = RowSchema{
		Name: "FavoriteGame",
		Fields: []Field{
			{Name: "player_id", Type: TypeInteger},
			{Name: "name", Type: TypeText, Rules: "required"},
			{Name: "game_title", Type: TypeText},
			{Name: "high_score", Type: TypeInteger},
		},
	}
)

// Registry returns every endpoint schema.
func Registry() []RowSchema {
	return []RowSchema{
		PlayerScore,
		TopPlayer,
		InactivePlayer,
		PopularGenre,
		RecentPlayer,
		FavoriteGame,
	}
}

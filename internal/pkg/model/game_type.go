package model

type GameType string

const (
	GameTypeTicTacToe        GameType = "TIC_TAC_TOE"
	GameTypeRockPaperScissor GameType = "ROCK_PAPER_SCISSORS"
	GameTypeBattleship       GameType = "BATTLESHIP"
	GameTypeRussianRoulette  GameType = "RUSSIAN_ROULETTE"
)

func (gt GameType) Valid() bool {
	switch gt {
	case GameTypeTicTacToe, GameTypeRockPaperScissor, GameTypeBattleship, GameTypeRussianRoulette:
		return true
	}
	return false
}

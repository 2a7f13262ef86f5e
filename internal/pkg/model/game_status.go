package model

type GameStatus string

const (
	GameWaiting  GameStatus = "WAITING"
	GamePlaying  GameStatus = "PLAYING"
	GameFinished GameStatus = "FINISHED"
)

package models

type LoginRequest struct {
	PlayerName string `json:"player_name" binding:"required,min=1,max=32"`
}

type StartGameRequest struct {
	Difficulty string `json:"difficulty" binding:"required"`
}

// CellRequest uses pointers so that a 0 coordinate passes the required check.
type CellRequest struct {
	Row *int `json:"row" binding:"required,min=0"`
	Col *int `json:"col" binding:"required,min=0"`
}

type VerifyRequest struct {
	Difficulty string `json:"difficulty" binding:"required"`
	Seed       uint64 `json:"seed,string"`
	Row        *int   `json:"row" binding:"required,min=0"`
	Col        *int   `json:"col" binding:"required,min=0"`
}

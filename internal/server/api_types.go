package server

import "rook-server/internal/rook"

type ErrorMessage struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type CreateGameRequest struct {
	HostName string `json:"hostName"`
}

type CreateGameResponse struct {
	GameCode string `json:"gameCode"`
	Token    string `json:"token"`
	Seat     int    `json:"seat"`
}

type JoinGameRequest struct {
	GameCode   string `json:"gameCode"`
	PlayerName string `json:"playerName"`
}

type JoinGameResponse struct {
	GameCode string `json:"gameCode"`
	Token    string `json:"token"`
	Seat     int    `json:"seat"`
}

type AddBotRequest struct {
	GameCode string `json:"gameCode"`
}

type ChoosePartnerRequest struct {
	PartnerSeat int `json:"partnerSeat"`
}

type PlaceBidRequest struct {
	Amount int `json:"amount"`
}

type ChooseTrumpRequest struct {
	Trump    rook.Suit   `json:"trump"`
	Discards []rook.Card `json:"discards"`
}

type PlayCardRequest struct {
	Card rook.Card `json:"card"`
}

type ReconnectRequest struct {
	Token string `json:"token"`
}

type ReconnectResponse struct {
	GameCode string `json:"gameCode"`
	Seat     int    `json:"seat"`
}

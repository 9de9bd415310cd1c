package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/edgarsautoshop/statusboard/internal/api/v1"
	"github.com/edgarsautoshop/statusboard/internal/api/ws"
	"github.com/edgarsautoshop/statusboard/internal/board"
	"github.com/edgarsautoshop/statusboard/internal/scheduling"
	"github.com/edgarsautoshop/statusboard/internal/store/postgres"
)

func registerAPIRoutes(api huma.API, store *postgres.Store, mover *scheduling.Service, boards *board.Model) {
	v1.RegisterAppointmentRoutes(api, store)
	v1.RegisterMoveRoutes(api, mover)
	v1.RegisterBoardRoutes(api, boards)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/board", hub.ServeBoard)
}

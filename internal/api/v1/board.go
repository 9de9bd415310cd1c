package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/edgarsautoshop/statusboard/internal/board"
	"github.com/edgarsautoshop/statusboard/internal/domain"
)

type GetBoardInput struct {
	From time.Time `query:"from" doc:"Include appointments scheduled at or after this time"`
	To   time.Time `query:"to" doc:"Include appointments scheduled before this time"`
}

type GetBoardOutput struct {
	Body *board.Snapshot
}

func RegisterBoardRoutes(api huma.API, boards BoardReader) {
	huma.Register(api, huma.Operation{
		OperationID: "get-board",
		Method:      http.MethodGet,
		Path:        "/board",
		Summary:     "Get the status board",
		Description: "One column per status with card count and estimated-total sum. The board is a derived view; versions for moves must come from the appointment record itself.",
		Tags:        []string{"Board"},
	}, func(ctx context.Context, input *GetBoardInput) (*GetBoardOutput, error) {
		snap, err := boards.Query(ctx, domain.BoardFilter{From: input.From, To: input.To})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to build board", err)
		}

		return &GetBoardOutput{Body: snap}, nil
	})
}

package api

import (
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"duoboard/domain"
)

// requestBodyMaxSize caps mutation payloads; board requests are tiny.
const requestBodyMaxSize = 1 << 20

// Register wires up all duoboard routes on the provided Echo instance.
func Register(e *echo.Echo, svc Service, logger *log.Logger) {
	e.GET("/api/board", getBoard(svc, logger))
	e.POST("/api/board/cards", addCard(svc))
	e.POST("/api/board/cards/:id/toggle", toggleCard(svc))
	e.POST("/api/board/cards/:id/move", moveCard(svc))
	e.PUT("/api/board/cards/:id/assignee", setAssignee(svc))
	e.POST("/api/board/reset", resetBoard(svc))
	e.GET("/api/board/load-share", getLoadShare(svc))

	e.GET("/api/info", getInfo(svc))
	e.POST("/api/info", addInfo(svc))
	e.DELETE("/api/info/:id", deleteInfo(svc))
	e.POST("/api/info/reset", resetInfo(svc))

	e.GET("/healthz", healthz())
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

func decodeBody(c echo.Context, out any) error {
	lr := io.LimitReader(c.Request().Body, requestBodyMaxSize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func getBoard(svc Service, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		metrics, spanCtx := newBoardRequestMetrics(c.Request().Context(), logger)
		if spanCtx != nil {
			c.SetRequest(c.Request().WithContext(spanCtx))
		}
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		snapshotStart := time.Now()
		board := svc.Board()
		metrics.ObserveSnapshot(time.Since(snapshotStart))
		metrics.SetCardCount(len(board.Cards))

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, board)
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func addCard(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req addCardRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		svc.AddCard(c.Request().Context(), req.ColumnID, req.Title, domain.Assignee(req.Assignee), req.DueDate)
		return c.JSON(http.StatusOK, svc.Board())
	}
}

func toggleCard(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		svc.ToggleDone(c.Request().Context(), c.Param("id"))
		return c.JSON(http.StatusOK, svc.Board())
	}
}

func moveCard(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req moveCardRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		ctx := c.Request().Context()
		cardID := c.Param("id")
		switch domain.Direction(req.Direction) {
		case domain.MoveUp, domain.MoveDown:
			svc.MoveWithinColumn(ctx, cardID, req.FromColumnID, domain.Direction(req.Direction))
		case domain.MoveLeft, domain.MoveRight:
			svc.MoveCardDirection(ctx, cardID, req.FromColumnID, domain.Direction(req.Direction))
		default:
			if req.Direction != "" {
				return c.String(http.StatusBadRequest, "unknown direction")
			}
			svc.MoveCard(ctx, cardID, req.FromColumnID, req.ToColumnID, req.ToIndex)
		}
		return c.JSON(http.StatusOK, svc.Board())
	}
}

func setAssignee(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req setAssigneeRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		assignee := domain.Assignee(req.Assignee)
		if !assignee.Valid() {
			return c.String(http.StatusBadRequest, "unknown assignee")
		}
		svc.SetAssignee(c.Request().Context(), c.Param("id"), assignee)
		return c.JSON(http.StatusOK, svc.Board())
	}
}

func resetBoard(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		svc.ResetBoard(c.Request().Context())
		return c.JSON(http.StatusOK, svc.Board())
	}
}

func getLoadShare(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		ref := time.Now()
		if raw := c.QueryParam("ref"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return c.String(http.StatusBadRequest, "invalid ref timestamp")
			}
			ref = parsed
		}
		return c.JSON(http.StatusOK, svc.LoadShare(ref))
	}
}

func getInfo(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, svc.Info())
	}
}

func addInfo(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req addInfoRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		svc.AddInfo(c.Request().Context(), req.Label, req.Detail)
		return c.JSON(http.StatusOK, svc.Info())
	}
}

func deleteInfo(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		svc.DeleteInfo(c.Request().Context(), c.Param("id"))
		return c.JSON(http.StatusOK, svc.Info())
	}
}

func resetInfo(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		svc.ResetInfo(c.Request().Context())
		return c.JSON(http.StatusOK, svc.Info())
	}
}

package handler

import (
	"net/http"

	"github.com/jackyeh168/gym_crm/src/internal/application/billing"
	appmember "github.com/jackyeh168/gym_crm/src/internal/application/member"
	"github.com/jackyeh168/gym_crm/src/internal/delivery/http/response"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// MemberHandler 會員自己的資料
type MemberHandler struct {
	qrCode       appmember.GetQRCodeUseCase
	transactions billing.ListMemberTransactionsUseCase
}

// NewMemberHandler 建構函數
func NewMemberHandler(qrCode appmember.GetQRCodeUseCase, transactions billing.ListMemberTransactionsUseCase) *MemberHandler {
	return &MemberHandler{
		qrCode:       qrCode,
		transactions: transactions,
	}
}

// MyQRCode 返回自己的 QR PNG
func (h *MemberHandler) MyQRCode(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	png, err := h.qrCode.Execute(c.Request().Context(), appmember.GetQRCodeQuery{Actor: actor})
	if err != nil {
		return errors.WithStack(err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// MyTransactions 自己的付款紀錄
func (h *MemberHandler) MyTransactions(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	result, err := h.transactions.Execute(c.Request().Context(), billing.ListMemberTransactionsQuery{
		Actor:    actor,
		MemberID: actor.ID.String(),
	})
	if err != nil {
		return errors.WithStack(err)
	}
	return response.Success(c, http.StatusOK, toTransactionsResponse(result), "")
}

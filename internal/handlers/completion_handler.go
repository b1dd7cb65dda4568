package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rishangit/s-ams-sub002/internal/domain/completion"
	"github.com/rishangit/s-ams-sub002/internal/httperr"
	"github.com/rishangit/s-ams-sub002/internal/middleware"
	ucompletion "github.com/rishangit/s-ams-sub002/internal/usecase/completion"
)

type CompletionHandler struct {
	open   *ucompletion.OpenCompletion
	submit *ucompletion.SubmitCompletion
}

func NewCompletionHandler(
	open *ucompletion.OpenCompletion,
	submit *ucompletion.SubmitCompletion,
) *CompletionHandler {
	return &CompletionHandler{open: open, submit: submit}
}

// --------- Requests ---------

type CompletionRequest struct {
	ProductsUsed []completion.LineInput `json:"products_used"`
	Notes        string                 `json:"notes"`
}

// --------- Handlers ---------

// Get opens the completion workflow. mode=edit asks for an editable copy of an
// existing record; without a record the workflow is in create mode either way.
func (h *CompletionHandler) Get(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var edit bool
	switch c.DefaultQuery("mode", "view") {
	case "view":
	case "edit":
		edit = true
	default:
		httperr.BadRequest(c, "invalid_mode", "mode must be view or edit")
		return
	}

	wf, err := h.open.Execute(c.Request.Context(), middleware.RoleContext(c), id, edit)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, wf.Snapshot())
}

func (h *CompletionHandler) Create(c *gin.Context) {
	h.write(c, false)
}

func (h *CompletionHandler) Update(c *gin.Context) {
	h.write(c, true)
}

func (h *CompletionHandler) write(c *gin.Context, edit bool) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	res, err := h.submit.Execute(c.Request.Context(), middleware.RoleContext(c), id, ucompletion.SubmitInput{
		Lines: req.ProductsUsed,
		Notes: req.Notes,
		Edit:  edit,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	status := http.StatusCreated
	if edit {
		status = http.StatusOK
	}
	c.JSON(status, res)
}

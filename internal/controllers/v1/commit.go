package v1

import (
	"errors"
	"net/http"

	"github.com/budget-line/backend/internal/commit"
	"github.com/budget-line/backend/internal/httputil"
	"github.com/budget-line/backend/internal/models"
	"github.com/budget-line/backend/internal/store"
	"github.com/budget-line/backend/internal/workingset"
	"github.com/gin-gonic/gin"
)

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Agreements
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/agreements/{id}/commit [options]
func OptionsAgreementCommit(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Agreement{}, id).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsPost(c)
}

// @Summary		Commit an editing session
// @Description	Stages the sent working set over the agreement's persisted state and commits it in one batch: new services components first, then new and updated budget lines, deletions last. Financial changes to PLANNED or EXECUTING lines are sent to division director review unless the acting user is privileged, and only when confirmed.
// @Tags			Agreements
// @Accept			json
// @Produce		json
// @Success		200			{object}	CommitResponse
// @Failure		400			{object}	CommitResponse
// @Failure		404			{object}	CommitResponse
// @Failure		409			{object}	CommitResponse
// @Failure		500			{object}	CommitResponse
// @Param			X-Actor-ID	header		string				true	"ID of the acting user"
// @Param			id			path		string				true	"ID formatted as string"
// @Param			commit		body		v1.CommitEditable	true	"Working set"
// @Router			/v1/agreements/{id}/commit [post]
func CommitAgreement(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CommitResponse{
			Error: &s,
		})
		return
	}

	actor, err := currentActor(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CommitResponse{
			Error: &s,
		})
		return
	}

	var editable CommitEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CommitResponse{
			Error: &s,
		})
		return
	}

	s := store.New(models.DB)
	session, err := s.Session(c.Request.Context(), id, actor)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CommitResponse{
			Error: &e,
		})
		return
	}

	err = stage(session, editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CommitResponse{
			Error: &e,
		})
		return
	}

	result, err := commit.New(s).Commit(c.Request.Context(), session, commit.Options{
		Confirm: func(_ []workingset.Line) bool {
			return editable.ConfirmFinancialChanges
		},
	})
	if err != nil {
		e := err.Error()

		if errors.Is(err, commit.ErrConfirmationDeclined) {
			c.JSON(http.StatusConflict, CommitResponse{
				Error: &e,
			})
			return
		}

		// A partial failure still reports the per-item results so the
		// client can show what went through
		c.JSON(status(err), CommitResponse{
			Data:  &result,
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, CommitResponse{Data: &result})
}

// stage applies the sent working set to the session in the order the
// commit stages run in.
func stage(session *workingset.Session, editable CommitEditable) error {
	for _, draft := range editable.NewComponents {
		if _, err := session.AddComponent(draft.draft()); err != nil {
			return err
		}
	}

	for _, edit := range editable.EditedComponents {
		if _, err := session.EditComponent(edit.ID, edit.patch()); err != nil {
			return err
		}
	}

	for _, draft := range editable.NewLines {
		if _, err := session.AddLine(draft.draft()); err != nil {
			return err
		}
	}

	for _, edit := range editable.EditedLines {
		if _, err := session.EditLine(edit.ID, edit.patch()); err != nil {
			return err
		}
	}

	for _, id := range editable.DeletedLines {
		if err := session.DeleteLine(id); err != nil {
			return err
		}
	}

	for _, id := range editable.DeletedComponents {
		if err := session.DeleteComponent(id); err != nil {
			return err
		}
	}

	return nil
}

// internal/api/schedule_handlers.go
// HTTP handlers for the schedule surface named in SPEC_FULL.md §6, wired
// onto internal/scheduling.Service. Grounded on the teacher's handler
// style (internal/api/tournament_handlers.go, match_handlers.go): thin
// functions returning gin.HandlerFunc, binding request bodies, and
// delegating validation to the service layer.

package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"courtsched/internal/csvio"
	"courtsched/internal/scheduling"
	"courtsched/internal/team"
)

// HandleGetSchedule returns a tournament's full persisted state.
func HandleGetSchedule(svc *scheduling.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := svc.GetSchedule(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, state)
	}
}

// HandleRescheduleAll runs reschedule_all for a tournament.
func HandleRescheduleAll(svc *scheduling.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := svc.RescheduleAll(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"iterations":  result.Iterations,
			"unscheduled": result.Unscheduled,
		})
	}
}

type assignmentRequest struct {
	Time  *string `json:"time"`
	Court *string `json:"court"`
}

// HandleUpdateMatch applies a single manual (time, court) edit.
func HandleUpdateMatch(svc *scheduling.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req assignmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
		operator := c.GetString("operator_id")
		a := scheduling.Assignment{MatchID: c.Param("matchId"), Time: req.Time, Court: req.Court}
		if err := svc.UpdateMatch(c.Request.Context(), c.Param("id"), operator, a); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

type batchAssignmentRequest struct {
	Matches []struct {
		MatchID string  `json:"matchId" binding:"required"`
		Time    *string `json:"time"`
		Court   *string `json:"court"`
	} `json:"matches" binding:"required,min=1,dive"`
}

// HandleUpdateMany applies a batch of manual edits atomically.
func HandleUpdateMany(svc *scheduling.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req batchAssignmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
		edits := make([]scheduling.Assignment, len(req.Matches))
		for i, m := range req.Matches {
			edits[i] = scheduling.Assignment{MatchID: m.MatchID, Time: m.Time, Court: m.Court}
		}
		operator := c.GetString("operator_id")
		if err := svc.UpdateMany(c.Request.Context(), c.Param("id"), operator, edits); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "count": len(edits)})
	}
}

// HandleClearAllSchedules empties every assignment in the tournament.
func HandleClearAllSchedules(svc *scheduling.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.ClearAllSchedules(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// HandleImportScheduleCSV parses the uploaded CSV body and applies it.
func HandleImportScheduleCSV(svc *scheduling.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read request body"})
			return
		}
		rows, err := csvio.Read(bytes.NewReader(body))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		operator := c.GetString("operator_id")
		if err := svc.ImportScheduleCSV(c.Request.Context(), c.Param("id"), operator, rows); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "rows": len(rows)})
	}
}

// HandleExportScheduleCSV streams the tournament's current assignments as CSV.
func HandleExportScheduleCSV(svc *scheduling.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := svc.ExportScheduleCSV(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment; filename=schedule.csv")
		if err := csvio.Write(c.Writer, rows); err != nil {
			respondError(c, err)
		}
	}
}

type updateTeamRequest struct {
	Player1 string `json:"player1" binding:"required"`
	Player2 string `json:"player2"`
}

// HandleUpdateTeam replaces a team's roster entry across a category.
func HandleUpdateTeam(svc *scheduling.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateTeamRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
		updated := team.New(req.Player1, req.Player2)
		err := svc.UpdateTeam(c.Request.Context(), c.Param("id"), c.Param("cat"), c.Param("team"), updated)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// HandleResetCategory regenerates a category's bracket from its stored
// configuration, supplementing the core operations per SPEC_FULL.md §4.7.
func HandleResetCategory(svc *scheduling.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		seed := int64(1)
		if s := c.Query("seed"); s != "" {
			if v, err := strconv.ParseInt(s, 10, 64); err == nil {
				seed = v
			}
		}
		if err := svc.ResetCategory(c.Request.Context(), c.Param("id"), c.Param("cat"), seed); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

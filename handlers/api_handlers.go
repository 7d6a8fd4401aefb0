package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"rollcall-roster/db"
	"rollcall-roster/models"
	"rollcall-roster/roster"
)

// APIHandler serves one shared roster over HTTP. Every roster operation
// runs under mu because gin handles requests concurrently.
type APIHandler struct {
	mu         sync.Mutex
	Roster     *roster.Roster
	Store      roster.Store
	ExcelSheet string
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(r *roster.Roster, store roster.Store, excelSheet string) *APIHandler {
	return &APIHandler{
		Roster:     r,
		Store:      store,
		ExcelSheet: excelSheet,
	}
}

// RegisterRoutes mounts the roster API under /api
func (h *APIHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/students", h.ListStudents)
		api.POST("/students", h.AddStudent)
		api.POST("/students/sort", h.SortStudents)
		api.GET("/students/search", h.SearchStudents)
		api.PUT("/students/:position", h.EditStudent)
		api.DELETE("/students/:position", h.DeleteStudent)

		api.POST("/save", h.Save)
		api.POST("/load", h.Load)
		api.POST("/import/students", h.ImportStudents)

		api.GET("/ping", PingHandler)
	}
}

// studentRequest is the body of add and edit calls. A nil Average means
// "not supplied".
type studentRequest struct {
	Name    string   `json:"name"`
	Average *float64 `json:"average"`
}

func positionParam(c *gin.Context) (int, bool) {
	pos, err := strconv.Atoi(c.Param("position"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Position must be an integer"})
		return 0, false
	}
	return pos, true
}

// ListStudents handles GET /api/students
func (h *APIHandler) ListStudents(c *gin.Context) {
	h.mu.Lock()
	students := h.Roster.List()
	h.mu.Unlock()

	c.JSON(http.StatusOK, students)
}

// AddStudent handles POST /api/students
func (h *APIHandler) AddStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.Average == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Average is required"})
		return
	}

	h.mu.Lock()
	err := h.Roster.Add(req.Name, *req.Average)
	h.mu.Unlock()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, models.Student{Name: req.Name, Average: *req.Average})
}

// SortStudents handles POST /api/students/sort
func (h *APIHandler) SortStudents(c *gin.Context) {
	h.mu.Lock()
	h.Roster.SortDescending()
	students := h.Roster.List()
	h.mu.Unlock()

	c.JSON(http.StatusOK, students)
}

// EditStudent handles PUT /api/students/:position. Name and average are
// applied independently: an invalid average still keeps the new name and
// the response says so.
func (h *APIHandler) EditStudent(c *gin.Context) {
	pos, ok := positionParam(c)
	if !ok {
		return
	}
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	avg := roster.KeepAverage
	if req.Average != nil {
		avg = *req.Average
	}

	h.mu.Lock()
	updated, err := h.Roster.EditAt(pos, req.Name, avg)
	h.mu.Unlock()

	switch {
	case errors.Is(err, roster.ErrInvalidPosition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, roster.ErrInvalidAverage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "student": updated})
	default:
		c.JSON(http.StatusOK, updated)
	}
}

// DeleteStudent handles DELETE /api/students/:position
func (h *APIHandler) DeleteStudent(c *gin.Context) {
	pos, ok := positionParam(c)
	if !ok {
		return
	}

	h.mu.Lock()
	removed, err := h.Roster.RemoveAt(pos)
	h.mu.Unlock()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, removed)
}

// SearchStudents handles GET /api/students/search?q=
func (h *APIHandler) SearchStudents(c *gin.Context) {
	query := c.Query("q")

	h.mu.Lock()
	found, err := h.Roster.Search(query)
	h.mu.Unlock()
	if errors.Is(err, roster.ErrEmpty) {
		c.JSON(http.StatusConflict, gin.H{"error": "No students to search"})
		return
	}
	if found == nil {
		// Return empty list instead of null for JSON consistency
		found = []models.Student{}
	}

	c.JSON(http.StatusOK, found)
}

// Save handles POST /api/save
func (h *APIHandler) Save(c *gin.Context) {
	h.mu.Lock()
	n, err := h.Roster.SaveTo(c.Request.Context(), h.Store)
	h.mu.Unlock()
	if err != nil {
		log.Printf("Error in Save handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save students"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"savedCount": n, "location": h.Store.Location()})
}

// Load handles POST /api/load
func (h *APIHandler) Load(c *gin.Context) {
	h.mu.Lock()
	n, err := h.Roster.LoadFrom(c.Request.Context(), h.Store)
	h.mu.Unlock()
	if err != nil {
		log.Printf("Error in Load handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load students"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"loadedCount": n, "location": h.Store.Location()})
}

// ImportStudents handles POST /api/import/students. The uploaded workbook
// replaces the roster.
func (h *APIHandler) ImportStudents(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		log.Printf("Error getting form file: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error retrieving uploaded file: " + err.Error()})
		return
	}
	defer file.Close()

	log.Printf("Received file upload: %s", header.Filename)

	students, err := db.ImportStudentsFromExcel(file, h.ExcelSheet)
	if err != nil {
		log.Printf("Error importing students from file %s: %v", header.Filename, err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to import students: " + err.Error()})
		return
	}

	h.mu.Lock()
	n := h.Roster.Replace(students)
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"message":       "Import successful",
		"importedCount": n,
	})
}

// PingHandler handles GET /api/ping
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}

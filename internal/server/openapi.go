package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Guessing Game API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the tile-reveal picture guessing game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /ws/leaderboard
	getWSBoard, _ := r.NewOperationContext(http.MethodGet, "/ws/leaderboard")
	getWSBoard.SetSummary("WebSocket leaderboard feed")
	getWSBoard.SetDescription("Upgrades to a WebSocket connection that pushes score submissions as they arrive.")
	getWSBoard.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWSBoard)

	// GET /api/categories
	listCategories, _ := r.NewOperationContext(http.MethodGet, "/api/categories")
	listCategories.SetSummary("List categories")
	listCategories.SetDescription("Returns all playable categories with image counts.")
	listCategories.AddRespStructure([]CategoryView{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listCategories)

	// GET /api/categories/{name}
	getCategory, _ := r.NewOperationContext(http.MethodGet, "/api/categories/{name}")
	getCategory.SetSummary("Get category")
	getCategory.SetDescription("Returns a single category by its slug.")
	getCategory.AddRespStructure(CategoryView{}, openapi.WithHTTPStatus(http.StatusOK))
	getCategory.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getCategory)

	// POST /api/game/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/game/start")
	postStart.SetSummary("Start a round")
	postStart.SetDescription("Draws a fresh set of questions from the category and returns a session token.")
	postStart.AddReqStructure(StartRequest{})
	postStart.AddRespStructure(StartResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postStart)

	// GET /api/game/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/game/state")
	getState.SetSummary("Get game state")
	getState.SetDescription("Returns the full round state for the player's session. Requires Bearer token.")
	getState.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getState)

	// POST /api/game/tile
	postTile, _ := r.NewOperationContext(http.MethodPost, "/api/game/tile")
	postTile.SetSummary("Reveal a tile")
	postTile.SetDescription("Reveals one tile of the current question. Requires Bearer token.")
	postTile.AddReqStructure(TileRequest{})
	postTile.AddRespStructure(TileResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postTile.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postTile.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postTile.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postTile)

	// POST /api/game/answer
	postAnswer, _ := r.NewOperationContext(http.MethodPost, "/api/game/answer")
	postAnswer.SetSummary("Submit answer")
	postAnswer.SetDescription("Submit a guess for the current question. Requires Bearer token.")
	postAnswer.AddReqStructure(AnswerRequest{})
	postAnswer.AddRespStructure(AnswerResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postAnswer)

	// POST /api/game/reveal
	postReveal, _ := r.NewOperationContext(http.MethodPost, "/api/game/reveal")
	postReveal.SetSummary("Give up on question")
	postReveal.SetDescription("Reveals the answer and all tiles, scoring zero for the question. Requires Bearer token.")
	postReveal.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postReveal.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postReveal.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postReveal)

	// POST /api/game/advance
	postAdvance, _ := r.NewOperationContext(http.MethodPost, "/api/game/advance")
	postAdvance.SetSummary("Advance to next question")
	postAdvance.SetDescription("Moves on from a resolved question, or completes the round. Requires Bearer token.")
	postAdvance.AddRespStructure(AdvanceResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAdvance.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postAdvance.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postAdvance)

	// POST /api/game/reset
	postReset, _ := r.NewOperationContext(http.MethodPost, "/api/game/reset")
	postReset.SetSummary("Restart round")
	postReset.SetDescription("Draws a fresh set of questions for the same category. Requires Bearer token.")
	postReset.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postReset.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postReset.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postReset)

	// GET /api/game/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/game/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of game events for one session. Pass token as query parameter.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/leaderboard
	getBoard, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard")
	getBoard.SetSummary("Leaderboard")
	getBoard.SetDescription("Returns the top scores, optionally filtered by category.")
	getBoard.AddRespStructure([]LeaderboardItem{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getBoard)

	// POST /api/leaderboard
	postScore, _ := r.NewOperationContext(http.MethodPost, "/api/leaderboard")
	postScore.SetSummary("Submit score")
	postScore.SetDescription("Records a finished round's score under a player name.")
	postScore.AddReqStructure(ScoreRequest{})
	postScore.AddRespStructure(ScoreResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postScore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postScore)

	// POST /api/admin/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	postLogin.SetSummary("Admin login")
	postLogin.SetDescription("Authenticate with email and password. Sets admin_session cookie.")
	postLogin.AddReqStructure(AdminLoginRequest{})
	postLogin.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/admin/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/admin/logout")
	postLogout.SetSummary("Admin logout")
	postLogout.SetDescription("Clears admin session and cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/admin/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/admin/me")
	getMe.SetSummary("Current admin")
	getMe.SetDescription("Returns the currently authenticated admin. Requires admin_session cookie.")
	getMe.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// POST /api/admin/categories
	createCategory, _ := r.NewOperationContext(http.MethodPost, "/api/admin/categories")
	createCategory.SetSummary("Create category")
	createCategory.SetDescription("Creates a new category. Requires admin_session cookie.")
	createCategory.AddReqStructure(CategoryRequest{})
	createCategory.AddRespStructure(CategoryView{}, openapi.WithHTTPStatus(http.StatusCreated))
	createCategory.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createCategory.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	createCategory.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(createCategory)

	// PUT /api/admin/categories/{name}
	updateCategory, _ := r.NewOperationContext(http.MethodPut, "/api/admin/categories/{name}")
	updateCategory.SetSummary("Update category")
	updateCategory.SetDescription("Updates a category's display name. Requires admin_session cookie.")
	updateCategory.AddReqStructure(CategoryRequest{})
	updateCategory.AddRespStructure(CategoryView{}, openapi.WithHTTPStatus(http.StatusOK))
	updateCategory.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	updateCategory.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(updateCategory)

	// DELETE /api/admin/categories/{name}
	deleteCategory, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/categories/{name}")
	deleteCategory.SetSummary("Delete category")
	deleteCategory.SetDescription("Deletes a category and its images, including stored media. Requires admin_session cookie.")
	deleteCategory.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	deleteCategory.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	deleteCategory.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteCategory)

	// GET /api/admin/images
	listImages, _ := r.NewOperationContext(http.MethodGet, "/api/admin/images")
	listImages.SetSummary("List images")
	listImages.SetDescription("Returns all images in a category, answers included. Requires admin_session cookie.")
	listImages.AddRespStructure([]ImageView{}, openapi.WithHTTPStatus(http.StatusOK))
	listImages.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	listImages.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listImages)

	// POST /api/admin/images
	createImage, _ := r.NewOperationContext(http.MethodPost, "/api/admin/images")
	createImage.SetSummary("Upload image")
	createImage.SetDescription("Multipart upload of a source image plus crop geometry; the server rasterizes the cropped square for play. Requires admin_session cookie.")
	createImage.AddRespStructure(ImageView{}, openapi.WithHTTPStatus(http.StatusCreated))
	createImage.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createImage.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(createImage)

	// PUT /api/admin/images/{id}
	updateImage, _ := r.NewOperationContext(http.MethodPut, "/api/admin/images/{id}")
	updateImage.SetSummary("Update image")
	updateImage.SetDescription("Updates an image's category and answers. Requires admin_session cookie.")
	updateImage.AddReqStructure(ImageUpdateRequest{})
	updateImage.AddRespStructure(ImageView{}, openapi.WithHTTPStatus(http.StatusOK))
	updateImage.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	updateImage.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	updateImage.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(updateImage)

	// DELETE /api/admin/images/{id}
	deleteImage, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/images/{id}")
	deleteImage.SetSummary("Delete image")
	deleteImage.SetDescription("Deletes an image and its stored media. Requires admin_session cookie.")
	deleteImage.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	deleteImage.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	deleteImage.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteImage)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

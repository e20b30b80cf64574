package watchlist

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/stockpulse/stockinfo-backend/internal/model"
	watchliststore "github.com/stockpulse/stockinfo-backend/internal/store/watchlist"
	"github.com/stockpulse/stockinfo-backend/internal/transport/middleware"
	"github.com/stockpulse/stockinfo-backend/internal/utils/logger"
	"github.com/stockpulse/stockinfo-backend/internal/view"
)

type handler struct {
	db     *gorm.DB
	store  watchliststore.IStore
	logger *logger.Logger
}

func New(db *gorm.DB, store watchliststore.IStore, logger *logger.Logger) IHandler {
	return &handler{
		db:     db,
		store:  store,
		logger: logger,
	}
}

// AddRequest is the POST /watchlist payload.
type AddRequest struct {
	Code   string `json:"code" binding:"required,max=32,stockcode"`
	Market string `json:"market" binding:"omitempty,max=16"`
	Note   string `json:"note" binding:"omitempty,max=255"`
}

// stockCodeRe accepts codes like "600519", "600519.SH" or "AAPL".
var stockCodeRe = regexp.MustCompile(`^[0-9A-Za-z]{1,12}(\.[A-Za-z]{2,4})?$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("stockcode", func(fl validator.FieldLevel) bool {
			return stockCodeRe.MatchString(strings.TrimSpace(fl.Field().String()))
		})
	}
}

// List godoc
// @Summary List watchlist items
// @Description List the calling user's watchlist, newest first
// @id listWatchlist
// @Tags Watchlist
// @Accept json
// @Produce json
// @Success 200 {object} view.Response[[]model.WatchlistItem]
// @Failure 401 {object} view.Response[any]
// @Router /watchlist [get]
func (h *handler) List(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, view.CreateResponse[any](nil, errors.New("missing user identity"), requestID, ""))
		return
	}

	items, err := h.store.GetByUser(h.db, userID)
	if err != nil {
		h.logger.Error("failed to list watchlist", map[string]string{"userID": userID, "error": err.Error()})
		c.JSON(http.StatusInternalServerError, view.CreateResponse[any](nil, err, requestID, "can't list watchlist"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(items, nil, requestID, ""))
}

// Add godoc
// @Summary Add a watchlist item
// @Description Add an instrument to the calling user's watchlist
// @id addWatchlistItem
// @Tags Watchlist
// @Accept json
// @Produce json
// @Param body body AddRequest true "item to add"
// @Success 201 {object} view.Response[model.WatchlistItem]
// @Failure 400 {object} view.ValidationErrorResponse
// @Failure 401 {object} view.Response[any]
// @Failure 409 {object} view.Response[any]
// @Router /watchlist [post]
func (h *handler) Add(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, view.CreateResponse[any](nil, errors.New("missing user identity"), requestID, ""))
		return
	}

	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, view.CreateValidationErrorResponse([]view.FieldError{
			{Field: "body", Message: err.Error()},
		}, requestID))
		return
	}

	item, err := h.store.Create(h.db, &model.WatchlistItem{
		UserID: userID,
		Code:   strings.ToUpper(strings.TrimSpace(req.Code)),
		Market: req.Market,
		Note:   req.Note,
	})
	if err != nil {
		if isDuplicate(err) {
			c.JSON(http.StatusConflict, view.CreateResponse[any](nil, errors.New("code already on watchlist"), requestID, ""))
			return
		}
		h.logger.Error("failed to add watchlist item", map[string]string{"userID": userID, "error": err.Error()})
		c.JSON(http.StatusInternalServerError, view.CreateResponse[any](nil, err, requestID, "can't add watchlist item"))
		return
	}

	c.JSON(http.StatusCreated, view.CreateResponse(item, nil, requestID, ""))
}

// Remove godoc
// @Summary Remove a watchlist item
// @Description Remove an item from the calling user's watchlist
// @id removeWatchlistItem
// @Tags Watchlist
// @Accept json
// @Produce json
// @Param id path int true "item id"
// @Success 200 {object} view.Response[any]
// @Failure 401 {object} view.Response[any]
// @Failure 404 {object} view.Response[any]
// @Router /watchlist/{id} [delete]
func (h *handler) Remove(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, view.CreateResponse[any](nil, errors.New("missing user identity"), requestID, ""))
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, view.CreateValidationErrorResponse([]view.FieldError{
			{Field: "id", Message: "must be a positive integer"},
		}, requestID))
		return
	}

	if err := h.store.Delete(h.db, userID, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, view.CreateResponse[any](nil, errors.New("watchlist item not found"), requestID, ""))
			return
		}
		h.logger.Error("failed to remove watchlist item", map[string]string{"userID": userID, "error": err.Error()})
		c.JSON(http.StatusInternalServerError, view.CreateResponse[any](nil, err, requestID, "can't remove watchlist item"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](gin.H{"deleted": id}, nil, requestID, ""))
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "duplicate key")
}

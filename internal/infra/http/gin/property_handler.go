package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staykit/internal/app/commands"
	"staykit/internal/app/handlers/properties"
	"staykit/internal/app/queries"
)

type propertyHandler struct {
	commandBus commands.Bus
	queryBus   queries.Bus
}

type ratesBody struct {
	Currency         string `json:"currency" binding:"required,len=3"`
	BasePriceCents   int64  `json:"base_price_cents" binding:"required,min=0"`
	WeekendCents     *int64 `json:"weekend_price_cents"`
	CleaningFeeCents *int64 `json:"cleaning_fee_cents"`
	MinimumNights    int    `json:"minimum_nights"`
}

func (b ratesBody) toInput() properties.RatesInput {
	return properties.RatesInput{
		Currency:         b.Currency,
		BasePriceCents:   b.BasePriceCents,
		WeekendCents:     b.WeekendCents,
		CleaningFeeCents: b.CleaningFeeCents,
		MinimumNights:    b.MinimumNights,
	}
}

type createPropertyBody struct {
	Name         string    `json:"name" binding:"required"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	Address      string    `json:"address"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    int       `json:"bathrooms"`
	MaxGuests    int       `json:"max_guests" binding:"required,min=1"`
	CheckInTime  string    `json:"check_in_time"`
	CheckOutTime string    `json:"check_out_time"`
	HouseRules   string    `json:"house_rules"`
	Amenities    []string  `json:"amenities"`
	Rates        ratesBody `json:"rates" binding:"required"`
}

// POST /api/v1/host/properties
func (h *propertyHandler) create(c *gin.Context) {
	principal, _ := currentPrincipal(c)
	var body createPropertyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := commands.Dispatch[properties.CreatePropertyCommand, properties.PropertyResult](
		c.Request.Context(), h.commandBus, properties.CreatePropertyCommand{
			HostID:       string(principal.UserID),
			Name:         body.Name,
			Description:  body.Description,
			Location:     body.Location,
			Address:      body.Address,
			Bedrooms:     body.Bedrooms,
			Bathrooms:    body.Bathrooms,
			MaxGuests:    body.MaxGuests,
			CheckInTime:  body.CheckInTime,
			CheckOutTime: body.CheckOutTime,
			HouseRules:   body.HouseRules,
			Amenities:    body.Amenities,
			Rates:        body.Rates.toInput(),
		})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// PUT /api/v1/host/properties/:id/rates
func (h *propertyHandler) updateRates(c *gin.Context) {
	principal, _ := currentPrincipal(c)
	var body ratesBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := commands.Dispatch[properties.UpdateRatesCommand, properties.PropertyResult](
		c.Request.Context(), h.commandBus, properties.UpdateRatesCommand{
			PropertyID: c.Param("id"),
			HostID:     string(principal.UserID),
			Rates:      body.toInput(),
		})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// POST /api/v1/host/properties/:id/activate
func (h *propertyHandler) activate(c *gin.Context) {
	principal, _ := currentPrincipal(c)
	result, err := commands.Dispatch[properties.ActivatePropertyCommand, properties.PropertyResult](
		c.Request.Context(), h.commandBus, properties.ActivatePropertyCommand{
			PropertyID: c.Param("id"),
			HostID:     string(principal.UserID),
		})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// POST /api/v1/host/properties/:id/photos
func (h *propertyHandler) addPhoto(c *gin.Context) {
	principal, _ := currentPrincipal(c)
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'photo' is required"})
		return
	}
	reader, err := file.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer reader.Close()

	result, err := commands.Dispatch[properties.AddPhotoCommand, properties.AddPhotoResult](
		c.Request.Context(), h.commandBus, properties.AddPhotoCommand{
			PropertyID:  c.Param("id"),
			HostID:      string(principal.UserID),
			FileName:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Size:        file.Size,
			Data:        reader,
		})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GET /api/v1/host/properties
func (h *propertyHandler) listOwn(c *gin.Context) {
	principal, _ := currentPrincipal(c)
	views, err := queries.Ask[properties.ListHostPropertiesQuery, []properties.PropertyView](
		c.Request.Context(), h.queryBus, properties.ListHostPropertiesQuery{HostID: string(principal.UserID)})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": views})
}

// GET /api/v1/properties/:id
func (h *propertyHandler) get(c *gin.Context) {
	view, err := queries.Ask[properties.GetPropertyQuery, properties.PropertyView](
		c.Request.Context(), h.queryBus, properties.GetPropertyQuery{PropertyID: c.Param("id")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

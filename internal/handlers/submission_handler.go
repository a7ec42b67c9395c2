package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/disbudpar-sulsel/tourism-data-backend/internal/middleware"
	"github.com/disbudpar-sulsel/tourism-data-backend/internal/models"
	"github.com/disbudpar-sulsel/tourism-data-backend/internal/services"
	"github.com/disbudpar-sulsel/tourism-data-backend/internal/supabase"
)

// SubmissionHandler handles form-based record submission requests
type SubmissionHandler struct {
	submissions *services.SubmissionService
	logger      *logrus.Logger
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissions *services.SubmissionService, logger *logrus.Logger) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions, logger: logger}
}

// SubmitResponse represents a successful submission
type SubmitResponse struct {
	Message  string `json:"message"`
	ImageURL string `json:"image_url,omitempty"`
}

// SubmitDestination handles POST /api/v1/submissions/destinations. The
// record's region is the officer's own region from the session.
func (h *SubmissionHandler) SubmitDestination(c *gin.Context) {
	session, _ := middleware.GetSessionContext(c)

	record := &models.DestinationRecord{
		Name:              c.PostForm("name"),
		Region:            session.Region,
		District:          c.PostForm("district"),
		Village:           c.PostForm("village"),
		Description:       c.PostForm("description"),
		Facilities:        c.PostForm("facilities"),
		DistanceToCapital: c.PostForm("distance_to_capital"),
		ManagingEntity:    c.PostForm("managing_entity"),
		SubmittedAt:       time.Now(),
	}
	if rating, err := strconv.Atoi(c.PostForm("rating")); err == nil {
		record.Rating = rating
	}

	image, err := h.readImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_image",
			Message: "Failed to read the uploaded image",
		})
		return
	}

	imageURL, err := h.submissions.SubmitDestination(record, image)
	if err != nil {
		h.writeSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SubmitResponse{
		Message:  "Destination record submitted",
		ImageURL: imageURL,
	})
}

// SubmitBusiness handles POST /api/v1/submissions/businesses
func (h *SubmissionHandler) SubmitBusiness(c *gin.Context) {
	session, _ := middleware.GetSessionContext(c)

	industry, ok := models.ParseIndustryType(c.PostForm("industry_type"))
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Jenis_Industri must be a recognized industry type",
		})
		return
	}

	record := &models.BusinessRecord{
		Name:           c.PostForm("business_name"),
		Region:         session.Region,
		District:       c.PostForm("district"),
		Village:        c.PostForm("village"),
		MaleStaff:      optionalInt(c.PostForm("male_staff")),
		FemaleStaff:    optionalInt(c.PostForm("female_staff")),
		ContactChannel: c.PostForm("contact_channel"),
		ContactValue:   c.PostForm("contact_value"),
		Details:        buildDetails(industry, c),
		SubmittedAt:    time.Now(),
	}

	image, err := h.readImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_image",
			Message: "Failed to read the uploaded image",
		})
		return
	}

	imageURL, err := h.submissions.SubmitBusiness(record, image)
	if err != nil {
		h.writeSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SubmitResponse{
		Message:  "Business record submitted",
		ImageURL: imageURL,
	})
}

// readImage reads the optional multipart image field. A missing file is
// not an error; the services decide whether an image is mandatory.
func (h *SubmissionHandler) readImage(c *gin.Context) (*services.ImageUpload, error) {
	header, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// read one byte past the limit so the size check can reject without
	// buffering arbitrarily large uploads
	data, err := io.ReadAll(io.LimitReader(file, services.MaxImageSize+1))
	if err != nil {
		return nil, err
	}

	return &services.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (h *SubmissionHandler) writeSubmissionError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var apiErr *supabase.APIError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "validation_error",
			"message": "Submission has invalid or missing fields",
			"fields":  validationErr.Fields,
		})
	case errors.Is(err, services.ErrImageTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   "image_too_large",
			Message: "Image exceeds the 50 MiB limit",
			Code:    "IMAGE_TOO_LARGE",
		})
	case errors.Is(err, services.ErrDuplicateBusinessName):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "duplicate_name",
			Message: "A business with this name has already been submitted",
			Code:    "DUPLICATE_BUSINESS_NAME",
		})
	case errors.As(err, &apiErr):
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "backend_error",
			Message: apiErr.Error(),
			Code:    "BACKEND_ERROR",
		})
	default:
		h.logger.WithError(err).Error("Submission failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Something went wrong. Please try again.",
		})
	}
}

// buildDetails assembles the category-conditional details variant from
// the form fields of one business submission
func buildDetails(industry models.IndustryType, c *gin.Context) models.BusinessDetails {
	registration := models.Registration{
		Available: optionalBool(c.PostForm("registration_available")),
		Number:    c.PostForm("registration_number"),
	}
	standard := models.Availability{
		Available: optionalBool(c.PostForm("standard_available")),
		Value:     c.PostForm("standard_certificate"),
	}

	switch {
	case industry.IsAccommodation():
		details := &models.AccommodationDetails{
			Kind:                  industry,
			RoomCount:             optionalInt(c.PostForm("room_count")),
			BedCount:              optionalInt(c.PostForm("bed_count")),
			Facilities:            c.PostForm("facilities"),
			HalalKitchen:          optionalBool(c.PostForm("halal_kitchen")),
			HalalCertificate:      optionalBool(c.PostForm("halal_certificate")),
			Registration:          registration,
			HealthSafetyCertified: optionalBool(c.PostForm("health_safety_cert")),
		}
		if industry == models.IndustryHotel {
			if stars, err := strconv.Atoi(c.PostForm("hotel_stars")); err == nil {
				details.Stars = stars
			}
		}
		return details
	case industry.IsDining():
		return &models.DiningDetails{
			Kind:                  industry,
			SeatCount:             optionalInt(c.PostForm("seat_count")),
			Facilities:            c.PostForm("facilities"),
			HalalCertificate:      optionalBool(c.PostForm("halal_certificate")),
			Registration:          registration,
			HealthSafetyCertified: optionalBool(c.PostForm("health_safety_cert")),
		}
	case industry == models.IndustrySpa:
		return &models.SpaDetails{
			Registration:     registration,
			Standard:         standard,
			HalalCertificate: optionalBool(c.PostForm("halal_certificate")),
		}
	case industry == models.IndustryCatering:
		return &models.CateringDetails{
			Registration: registration,
			Permit: models.Availability{
				Available: optionalBool(c.PostForm("permit_available")),
				Value:     c.PostForm("permit_value"),
			},
			HalalCertificate: optionalBool(c.PostForm("halal_certificate")),
		}
	case industry == models.IndustryNightlife:
		return &models.NightlifeDetails{
			Registration:  registration,
			Standard:      standard,
			Entertainment: c.PostForm("entertainment_type"),
		}
	default:
		return &models.TravelDetails{Registration: registration}
	}
}

func optionalInt(value string) *int {
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}

func optionalBool(value string) *bool {
	var b bool
	switch value {
	case "true", "1", "ya", "Ya":
		b = true
	case "false", "0", "tidak", "Tidak":
		b = false
	default:
		return nil
	}
	return &b
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tobi/learnhub/internal/app/models/dto"
	"github.com/tobi/learnhub/internal/app/services"
	"github.com/tobi/learnhub/internal/middleware"
	"github.com/tobi/learnhub/internal/pkg/helpers"
	"github.com/tobi/learnhub/internal/pkg/paystack"
)

// PaymentController handles Paystack payment operations
type PaymentController struct {
	paymentService services.PaymentService
	logger         zerolog.Logger
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(paymentService services.PaymentService, logger zerolog.Logger) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		logger:         logger,
	}
}

// Initialize starts a Paystack transaction for a paid course
// @Summary Initialize a course payment
// @Description Creates a PENDING payment and returns the Paystack checkout URL
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.InitializePaymentRequest true "Course to pay for"
// @Success 201 {object} dto.APIResponse{data=dto.InitializePaymentResponse} "Checkout data"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or free course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Already registered or course full"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /payments/initialize [post]
func (c *PaymentController) Initialize(ctx *gin.Context) {
	var req dto.InitializePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	payment, data, err := c.paymentService.Initialize(ctx.Request.Context(), currentUserID(ctx), req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.InitializePaymentResponse{
		Reference:        payment.Reference,
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
	}, "Payment initialized"))
}

// Verify re-checks a payment with Paystack and settles it on success
// @Summary Verify a payment
// @Description Confirms the transaction with Paystack. On success the payment settles and the registration is approved. Safe to call repeatedly.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param reference path string true "Payment reference"
// @Success 200 {object} dto.APIResponse{data=dto.VerifyPaymentResponse} "Payment settled"
// @Failure 402 {object} dto.ErrorResponse "Payment not successful"
// @Failure 403 {object} dto.ErrorResponse "Not the payment owner"
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /payments/{reference}/verify [get]
func (c *PaymentController) Verify(ctx *gin.Context) {
	reference := ctx.Param("reference")
	if reference == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Payment reference is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	payment, reg, err := c.paymentService.Verify(ctx.Request.Context(), reference, currentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.VerifyPaymentResponse{Payment: dto.FromPayment(payment)}
	if reg != nil {
		regResp := dto.FromRegistration(reg)
		resp.Registration = &regResp
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Payment verified"))
}

// Webhook receives Paystack webhook deliveries
// @Summary Paystack webhook endpoint
// @Description Verifies the x-paystack-signature header against the raw body and settles charge.success events. Responds 200 for events that should not be retried.
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse "Event processed"
// @Failure 400 {object} dto.ErrorResponse "Malformed payload"
// @Failure 401 {object} dto.ErrorResponse "Invalid signature"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /payments/webhook [post]
func (c *PaymentController) Webhook(ctx *gin.Context) {
	// The signature covers the raw body, so read it before any binding
	body, err := ctx.GetRawData()
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unreadable request body")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	signature := ctx.GetHeader(paystack.SignatureHeader)
	if err := c.paymentService.HandleWebhook(ctx.Request.Context(), body, signature); err != nil {
		c.logger.Warn().Err(err).Msg("Webhook processing failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Event processed"))
}

// ListOwn lists the authenticated user's payments
// @Summary List own payments
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaymentListResponse} "Payments"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /payments/me [get]
func (c *PaymentController) ListOwn(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	list, err := c.paymentService.ListOwn(ctx.Request.Context(), currentUserID(ctx), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(toPaymentListResponse(list, page, size), ""))
}

// ListAll lists every payment on the platform
// @Summary List all payments
// @Description Lists all payments. Admin only.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaymentListResponse} "Payments"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /payments [get]
func (c *PaymentController) ListAll(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	list, err := c.paymentService.ListAll(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(toPaymentListResponse(list, page, size), ""))
}

func toPaymentListResponse(list *services.PaymentList, page, size int) dto.PaymentListResponse {
	payments := make([]dto.PaymentResponse, 0, len(list.Payments))
	for _, payment := range list.Payments {
		payments = append(payments, dto.FromPayment(payment))
	}
	return dto.PaymentListResponse{
		Payments:   payments,
		Pagination: helpers.NewPaginationInfo(list.Total, page, size),
	}
}

package public

import (
	"errors"

	"github.com/magazine-next/internal/http/response"
	"github.com/magazine-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError binds one business error to its API reply.
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// Coupon rejections keep the invalid_coupon prefix so clients can show the
// precise reason returned by validation.
var couponReasonErrorRules = []mappedHandlerError{
	{target: service.ErrCouponNotFound, code: response.CodeBadRequest, msg: "invalid_coupon:not_found"},
	{target: service.ErrCouponInactive, code: response.CodeBadRequest, msg: "invalid_coupon:inactive"},
	{target: service.ErrCouponExpired, code: response.CodeBadRequest, msg: "invalid_coupon:expired"},
	{target: service.ErrCouponInvalidForPlan, code: response.CodeBadRequest, msg: "invalid_coupon:invalid_for_plan"},
	{target: service.ErrCouponInvalidForMag, code: response.CodeBadRequest, msg: "invalid_coupon:invalid_for_magazine"},
	{target: service.ErrCouponExhausted, code: response.CodeBadRequest, msg: "invalid_coupon:exhausted"},
	{target: service.ErrCouponUserLimitExceeded, code: response.CodeBadRequest, msg: "invalid_coupon:user_limit_exceeded"},
}

var orderCreateErrorRules = []mappedHandlerError{
	{target: service.ErrPlanNotFound, code: response.CodeNotFound, msg: "plan_not_found"},
	{target: service.ErrMagazineNotFound, code: response.CodeNotFound, msg: "magazine_not_found"},
	{target: service.ErrMonthsBelowMinimum, code: response.CodeBadRequest, msg: "months_below_minimum"},
	{target: service.ErrMonthsAboveMaximum, code: response.CodeBadRequest, msg: "months_above_maximum"},
	{target: service.ErrInvalidDeliveryMode, code: response.CodeBadRequest, msg: "invalid_delivery_mode"},
	{target: service.ErrPhysicalAddressRequired, code: response.CodeBadRequest, msg: "physical_address_required"},
	{target: service.ErrAddressNotFound, code: response.CodeNotFound, msg: "address_not_found"},
	{target: service.ErrReaderNotFound, code: response.CodeNotFound, msg: "reader_not_found"},
}

var editionOrderErrorRules = []mappedHandlerError{
	{target: service.ErrEditionIDRequired, code: response.CodeBadRequest, msg: "editionId_required"},
	{target: service.ErrEditionNotFound, code: response.CodeNotFound, msg: "edition_not_found"},
}

var proofAttachErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order_not_found"},
	{target: service.ErrForbidden, code: response.CodeForbidden, msg: "forbidden"},
	{target: service.ErrOrderAlreadyPaid, code: response.CodeBadRequest, msg: "order_already_paid"},
	{target: service.ErrInvalidUpload, code: response.CodeBadRequest, msg: "invalid_upload"},
}

var accessErrorRules = []mappedHandlerError{
	{target: service.ErrEditionNotFound, code: response.CodeNotFound, msg: "edition_not_found"},
	{target: service.ErrAccessDenied, code: response.CodeForbidden, msg: "access_denied"},
}

func respondOrderCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(orderCreateErrorRules, couponReasonErrorRules), response.CodeInternal, "order_create_failed")
}

func respondEditionOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, editionOrderErrorRules, response.CodeInternal, "order_create_failed")
}

func respondProofAttachError(c *gin.Context, err error) {
	respondWithMappedError(c, err, proofAttachErrorRules, response.CodeInternal, "proof_attach_failed")
}

func respondAccessError(c *gin.Context, err error) {
	respondWithMappedError(c, err, accessErrorRules, response.CodeInternal, "access_check_failed")
}

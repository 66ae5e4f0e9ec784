package domain

// SupportedPaymentMethods are the payment method types this gateway can offer
// on a checkout session, in the order they are offered. A method is only
// included on a session if the Stripe account has an active capability whose
// name contains it.
// See https://stripe.com/docs/api/checkout/sessions/create
var SupportedPaymentMethods = []string{
	"alipay",
	"card",
	"ideal",
	"fpx",
	"bacs_debit",
	"bancontact",
	"giropay",
	"p24",
	"eps",
	"sofort",
	"sepa_debit",
	"grabpay",
	"afterpay_clearpay",
	"acss_debit",
	"wechat_pay",
	"boleto",
	"oxxo",
}

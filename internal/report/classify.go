// Package report turns captive-portal authentication responses into usage reports.
package report

// QuotaReachedCode is the portal error code signalling an exhausted data quota.
const QuotaReachedCode = "error_logon_volume-quota-reached-detail"

// Variant is one of the mutually exclusive shapes a portal response can take.
// The set is closed: Active, QuotaReached, APIError and Unrecognized.
type Variant interface {
	Kind() string
	isVariant()
}

// Active is a successful login carrying consumption data.
type Active struct {
	User     map[string]any
	Consumed any
}

// QuotaReached is the portal refusing login because the quota is exhausted.
type QuotaReached struct {
	Value any
}

// APIError is a portal-reported failure such as bad credentials.
type APIError struct {
	Message string
}

// Unrecognized is any document matching none of the known shapes.
type Unrecognized struct {
	Excerpt string
}

func (Active) Kind() string       { return "active" }
func (QuotaReached) Kind() string { return "quota-reached" }
func (APIError) Kind() string     { return "api-error" }
func (Unrecognized) Kind() string { return "unrecognized" }

func (Active) isVariant()       {}
func (QuotaReached) isVariant() {}
func (APIError) isVariant()     {}
func (Unrecognized) isVariant() {}

// matcher inspects a document and returns a variant when it applies.
type matcher func(doc map[string]any) (Variant, bool)

// matchers are tried in order and the first hit wins. Usage data outranks
// error keys because the portal sometimes sends both in one envelope.
var matchers = []matcher{
	matchActive,
	matchAPIError,
	matchQuotaReached,
}

// Classify determines which response variant doc represents. It never fails:
// documents matching nothing become Unrecognized.
func Classify(doc map[string]any) Variant {
	for _, match := range matchers {
		if v, ok := match(doc); ok {
			return v
		}
	}
	return Unrecognized{Excerpt: excerptOf(doc)}
}

func matchActive(doc map[string]any) (Variant, bool) {
	user, ok := doc["user"].(map[string]any)
	if !ok {
		return nil, false
	}
	consumed, ok := user["consumedData"]
	if !ok {
		return nil, false
	}
	return Active{User: user, Consumed: consumed}, true
}

func matchAPIError(doc map[string]any) (Variant, bool) {
	msg, ok := doc["errorMsg"].(string)
	if !ok {
		return nil, false
	}
	return APIError{Message: msg}, true
}

func matchQuotaReached(doc map[string]any) (Variant, bool) {
	errObj, ok := doc["error"].(map[string]any)
	if !ok {
		return nil, false
	}
	if code, _ := errObj["code"].(string); code != QuotaReachedCode {
		return nil, false
	}
	return QuotaReached{Value: errObj["value"]}, true
}

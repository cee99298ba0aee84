package requestdata

import (
	"context"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type requestDataKeyType struct{}

var requestDataKey = requestDataKeyType{}

// RequestData is the authenticated caller, carried explicitly per request.
// Nothing here is cached across requests.
type RequestData struct {
	Username string
	Role     string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey)
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}

// IsAdmin reports whether the caller holds the elevated role that may read
// owner social security numbers unredacted.
func IsAdmin(ctx context.Context) bool {
	rd := GetRequestData(ctx)
	return rd != nil && rd.Role == RoleAdmin
}

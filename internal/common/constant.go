package common

// AccessTokenHeaderName is the HTTP header carrying the bearer token on
// authenticated requests.
const AccessTokenHeaderName = "Authorization"

// BearerPrefix is accepted (and stripped) in front of the token.
const BearerPrefix = "Bearer "

// HashLength is the length of the hex-encoded, client-side SHA-256 password
// hash accepted by signup and login.
const HashLength = 64

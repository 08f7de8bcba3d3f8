package common

// AuthorizationHeader carries the bearer credential on inbound requests.
const AuthorizationHeader = "Authorization"

// BearerScheme is the only accepted authorization scheme.
const BearerScheme = "Bearer"

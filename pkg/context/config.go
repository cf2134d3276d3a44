package context

import "github.com/oishi/portfolio/pkg/auth"

type RouterType string

const (
	ReverseProxy    RouterType = "ReverseProxy"
	StaticSite      RouterType = "StaticSite"
	AuthApi         RouterType = "AuthApi"
	AuthConfigApi   RouterType = "AuthConfigApi"
	ArticlesApi     RouterType = "ArticlesApi"
	TagMappingApi   RouterType = "TagMappingApi"
	WorksApi        RouterType = "WorksApi"
	BlogListingApi  RouterType = "BlogListingApi"
	WorksListingApi RouterType = "WorksListingApi"
)

type FilterType string

const (
	LogFilter        FilterType = "LogFilter"
	AccessGateFilter FilterType = "AccessGateFilter"
)

type EvidenceType string

const (
	CustomCookies    EvidenceType = "CustomCookies"
	CognitoCookies   EvidenceType = "CognitoCookies"
	IdentityProvider EvidenceType = "IdentityProvider"
)

type Filter struct {
	Type                FilterType `validate:"required"`
	Name                string     `validate:"required"`
	Template            string
	LoginPath           string       `mapstructure:"login-path"`
	SignupPath          string       `mapstructure:"signup-path"`
	HomePath            string       `mapstructure:"home-path"`
	PublicPrefixes      []string     `mapstructure:"public-prefixes"`
	SkipDottedPaths     bool         `mapstructure:"skip-dotted-paths"`
	Evidence            EvidenceType `mapstructure:"evidence"`
	IdTokenCookie       string       `mapstructure:"id-token-cookie"`
	AccessTokenCookie   string       `mapstructure:"access-token-cookie"`
	RejectExpiredTokens bool         `mapstructure:"reject-expired-tokens"`
}

type Router struct {
	Type      RouterType `validate:"required"`
	Pattern   string     `validate:"required"`
	TargetUrl string     `mapstructure:"target-url"`
	RootDir   string     `mapstructure:"root-dir"`
	Filters   []Filter   `validate:"dive"`
}

type LogLevel string

const (
	Debug LogLevel = "debug"
	Trace LogLevel = "trace"
	Info  LogLevel = "info"
)

type GithubConfig struct {
	GraphqlUrl           string `mapstructure:"graphql-url"`
	Token                string `mapstructure:"token" yaml:"-"`
	Owner                string `mapstructure:"owner"`
	Repository           string `mapstructure:"repository"`
	ArticlesExpression   string `mapstructure:"articles-expression"`
	TagMappingExpression string `mapstructure:"tag-mapping-expression"`
}

type MicroCmsConfig struct {
	BaseUrl       string `mapstructure:"base-url"`
	ServiceDomain string `mapstructure:"service-domain"`
	ApiKey        string `mapstructure:"api-key" yaml:"-"`
	Endpoint      string `mapstructure:"endpoint"`
	Limit         int    `mapstructure:"limit" validate:"gte=0,lte=100"`
}

type CookieConfig struct {
	Secure          bool   `mapstructure:"secure"`
	Domain          string `mapstructure:"domain"`
	TokenTTLHours   int    `mapstructure:"token-ttl-hours" validate:"gte=0"`
	RefreshTTLHours int    `mapstructure:"refresh-ttl-hours" validate:"gte=0"`
}

type ContentCacheConfig struct {
	ExpirationTimeMinutes    int    `mapstructure:"expiration-time-minutes" validate:"gte=0"`
	EvictScheduleTimeMinutes int    `mapstructure:"evict-schedule-time-minutes" validate:"gte=0"`
	WarmSchedule             string `mapstructure:"warm-schedule"`
}

type PortfolioConfiguration struct {
	LogLevel     LogLevel             `mapstructure:"log-level"`
	Locale       string               `mapstructure:"locale"`
	Cognito      auth.CognitoSettings `mapstructure:"cognito"`
	Github       GithubConfig         `mapstructure:"github"`
	MicroCms     MicroCmsConfig       `mapstructure:"microcms"`
	Cookies      CookieConfig         `mapstructure:"cookies"`
	ContentCache ContentCacheConfig   `mapstructure:"content-cache"`
	Routers      []Router             `validate:"dive"`
}

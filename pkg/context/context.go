package context

import (
	"fmt"
	"github.com/oishi/portfolio/pkg/api"
	"github.com/oishi/portfolio/pkg/auth"
	"github.com/oishi/portfolio/pkg/cache"
	"github.com/oishi/portfolio/pkg/common"
	"github.com/oishi/portfolio/pkg/content"
	"github.com/oishi/portfolio/pkg/filters"
	"github.com/oishi/portfolio/pkg/gate"
	"github.com/oishi/portfolio/pkg/proxy"
	"github.com/oishi/portfolio/pkg/tokens"
	log "github.com/sirupsen/logrus"
	"gopkg.in/go-playground/validator.v9"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultContentTTL    = time.Hour
	defaultEvictSchedule = 10 * time.Minute

	githubNotConfigured   = "GitHub token is not configured"
	microCmsNotConfigured = "microCMS API key is not configured"
	cognitoNotConfigured  = "Cognito configuration is missing"
)

type contentCachePort interface {
	content.MappingCachePort
	content.CatalogCachePort
}

type context struct {
	config            *PortfolioConfiguration
	httpClient        *http.Client
	contentCache      contentCachePort
	tagMappings       *content.TagMappingStore
	articles          *content.ArticleService
	catalog           *content.Catalog
	identityProvider  auth.IdentityProvider
	messages          *auth.Messages
	serverMultiplexer *http.ServeMux
}

var validate = validator.New()

func NewContext(config *PortfolioConfiguration, httpClient *http.Client) *context {
	if err := validate.Struct(config); err != nil {
		panic(fmt.Errorf("Invalid configuration: %v\n", err))
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &context{
		config:            config,
		httpClient:        httpClient,
		serverMultiplexer: http.NewServeMux(),
	}
}

func (ctx *context) SetupContent() {
	cacheConfig := ctx.config.ContentCache
	ctx.contentCache = cache.NewGoCacheContentProvider(
		minutesOr(cacheConfig.ExpirationTimeMinutes, defaultContentTTL),
		minutesOr(cacheConfig.EvictScheduleTimeMinutes, defaultEvictSchedule),
	)

	var articleLoader content.ArticleLoader
	var mappingLoader content.MappingLoader
	if github := ctx.config.Github; github.Token != "" {
		if github.Owner == "" || github.Repository == "" || github.ArticlesExpression == "" {
			panic(fmt.Errorf("GitHub article source needs owner, repository and articles expression.\n"))
		}
		client := content.NewGithubClient(ctx.httpClient, content.GithubSettings{
			GraphqlUrl:           github.GraphqlUrl,
			Token:                github.Token,
			Owner:                github.Owner,
			Name:                 github.Repository,
			ArticlesExpression:   github.ArticlesExpression,
			TagMappingExpression: github.TagMappingExpression,
		})
		mappingLoader = client
		ctx.tagMappings = content.NewTagMappingStore(mappingLoader, ctx.contentCache)
		ctx.articles = content.NewArticleService(client, ctx.tagMappings)
		articleLoader = ctx.articles
		log.Debugf("GitHub article source: %v/%v", github.Owner, github.Repository)
	} else {
		log.Warn("GITHUB_TOKEN is not set. Article endpoints answer with a configuration error")
		ctx.tagMappings = content.NewTagMappingStore(nil, ctx.contentCache)
	}

	var worksLoader content.WorksLoader
	if microCms := ctx.config.MicroCms; microCms.ApiKey != "" {
		worksLoader = content.NewMicroCmsClient(ctx.httpClient, content.MicroCmsSettings{
			BaseUrl:       microCms.BaseUrl,
			ServiceDomain: microCms.ServiceDomain,
			ApiKey:        microCms.ApiKey,
			Endpoint:      microCms.Endpoint,
			Limit:         microCms.Limit,
		})
		log.Debugf("microCMS works source: %v", microCms.ServiceDomain)
	} else {
		log.Warn("MICROCMS_API_KEY is not set. Works endpoints answer with a configuration error")
	}

	ctx.catalog = content.NewCatalog(articleLoader, worksLoader, ctx.contentCache)
}

func (ctx *context) SetupAuth() {
	messages, err := auth.LoadMessages(ctx.config.Locale)
	if err != nil {
		panic(fmt.Errorf("Loading auth messages error: %v\n", err))
	}
	ctx.messages = messages

	cognito := ctx.config.Cognito
	if cognito.Complete() {
		ctx.identityProvider = auth.NewCognitoProvider(ctx.httpClient, cognito.Region, cognito.Endpoint, cognito.ClientId)
	} else {
		log.Warn("COGNITO_USER_POOL_ID or COGNITO_CLIENT_ID is not set. Auth endpoints answer with a configuration error")
	}
}

// Catalog is nil until SetupContent ran.
func (ctx *context) Catalog() *content.Catalog {
	return ctx.catalog
}

func (ctx *context) Articles() *content.ArticleService {
	return ctx.articles
}

func (ctx *context) SetupRouters(routers []Router) {
	for _, router := range routers {
		handler := ctx.buildRouterHandler(router)
		rootFilterHandler := ctx.BuildFilterHandlers(router.Filters, handler)
		ctx.serverMultiplexer.HandleFunc(router.Pattern, common.ToHttpHandler(rootFilterHandler))
	}
}

func (ctx *context) buildRouterHandler(router Router) common.RequestHandler {
	switch router.Type {
	case ReverseProxy:
		log.Debugf("Adding Reverse proxy router. Pattern: %s; Target: %s", router.Pattern, router.TargetUrl)
		targetUrl, err := url.Parse(router.TargetUrl)
		if err != nil || router.TargetUrl == "" {
			panic(fmt.Errorf("Reverse proxy router %v has invalid target url '%v'.\n", router.Pattern, router.TargetUrl))
		}
		return proxy.NewReverseProxyHandler(*targetUrl)
	case StaticSite:
		log.Debugf("Adding Static site router. Pattern: %s; Root: %s", router.Pattern, router.RootDir)
		if router.RootDir == "" {
			panic(fmt.Errorf("Static site router %v has no root dir.\n", router.Pattern))
		}
		return proxy.NewStaticSiteHandler(router.RootDir)
	case AuthApi:
		log.Debugf("Adding Auth api router. Pattern: %s", router.Pattern)
		if ctx.identityProvider == nil {
			return api.NewMisconfiguredHandler(cognitoNotConfigured)
		}
		return auth.NewAuthApiHandler(ctx.identityProvider, ctx.mustMessages(), ctx.cookieSettings())
	case AuthConfigApi:
		log.Debugf("Adding Auth config router. Pattern: %s", router.Pattern)
		return auth.NewConfigHandler(ctx.config.Cognito)
	case ArticlesApi:
		log.Debugf("Adding Articles router. Pattern: %s", router.Pattern)
		catalog := ctx.mustCatalog()
		if ctx.articles == nil {
			return api.NewMisconfiguredHandler(githubNotConfigured)
		}
		return api.NewArticlesHandler(catalog)
	case TagMappingApi:
		log.Debugf("Adding Tag mapping router. Pattern: %s", router.Pattern)
		ctx.mustCatalog()
		if ctx.articles == nil {
			return api.NewMisconfiguredHandler(githubNotConfigured)
		}
		return api.NewTagMappingHandler(ctx.tagMappings)
	case WorksApi:
		log.Debugf("Adding Works router. Pattern: %s", router.Pattern)
		if ctx.config.MicroCms.ApiKey == "" {
			return api.NewMisconfiguredHandler(microCmsNotConfigured)
		}
		return api.NewWorksHandler(ctx.mustCatalog())
	case BlogListingApi:
		log.Debugf("Adding Blog listing router. Pattern: %s", router.Pattern)
		catalog := ctx.mustCatalog()
		if ctx.articles == nil {
			return api.NewMisconfiguredHandler(githubNotConfigured)
		}
		return api.NewBlogListingHandler(catalog)
	case WorksListingApi:
		log.Debugf("Adding Works listing router. Pattern: %s", router.Pattern)
		if ctx.config.MicroCms.ApiKey == "" {
			return api.NewMisconfiguredHandler(microCmsNotConfigured)
		}
		return api.NewWorksListingHandler(ctx.mustCatalog())
	default:
		panic(fmt.Errorf("Undefined router type: %v.\n", router.Type))
	}
}

func (ctx *context) BuildFilterHandlers(filters []Filter, mainHandler common.RequestHandler) (rootHandler common.RequestHandler) {
	if filters == nil {
		return mainHandler
	}

	currentHandler := mainHandler

	for i := len(filters) - 1; i >= 0; i-- {
		handler := ctx.BuildFilterHandler(filters[i])
		handler.SetNext(currentHandler)
		currentHandler = handler
	}

	return currentHandler
}

func (ctx *context) BuildFilterHandler(filter Filter) common.RequestChainedHandler {
	switch filter.Type {
	case LogFilter:
		log.Debugf("Adding Log filter. Name: %s", filter.Name)
		return filters.CreateLogFilter(filter.Name, filter.Template)
	case AccessGateFilter:
		log.Debugf("Adding Access gate filter. Name: %s; Evidence: %s", filter.Name, filter.Evidence)
		policy := &gate.Policy{
			LoginPath:       stringOr(filter.LoginPath, "/login"),
			SignupPath:      stringOr(filter.SignupPath, "/signup"),
			HomePath:        stringOr(filter.HomePath, "/"),
			PublicPrefixes:  filter.PublicPrefixes,
			SkipDottedPaths: filter.SkipDottedPaths,
		}
		if err := validate.Struct(policy); err != nil {
			panic(fmt.Errorf("Access gate filter %v has invalid policy: %v\n", filter.Name, err))
		}
		idTokenCookie := stringOr(filter.IdTokenCookie, common.IdTokenCookie)
		reader := tokens.NewIdentityTokenReader()
		return gate.NewAccessGateFilter(filter.Name, policy, ctx.buildEvidence(filter, reader), reader, idTokenCookie)
	default:
		panic(fmt.Errorf("Undefined filter type: %v.\n", filter.Type))
	}
}

func (ctx *context) buildEvidence(filter Filter, reader gate.IdentityReader) gate.EvidenceSource {
	idTokenCookie := stringOr(filter.IdTokenCookie, common.IdTokenCookie)
	accessTokenCookie := stringOr(filter.AccessTokenCookie, common.AccessTokenCookie)

	switch filter.Evidence {
	case CustomCookies, "":
		return gate.NewCustomCookieEvidence(idTokenCookie, accessTokenCookie, reader, filter.RejectExpiredTokens)
	case CognitoCookies:
		return gate.NewCognitoCookieEvidence(ctx.config.Cognito.ClientId)
	case IdentityProvider:
		if ctx.identityProvider == nil {
			panic(fmt.Errorf("Access gate filter %v needs a configured identity provider.\n", filter.Name))
		}
		return gate.NewProviderEvidence(ctx.identityProvider, accessTokenCookie)
	default:
		panic(fmt.Errorf("Undefined access gate evidence type: %v.\n", filter.Evidence))
	}
}

func (ctx *context) cookieSettings() auth.CookieSettings {
	settings := auth.DefaultCookieSettings()
	cookies := ctx.config.Cookies
	settings.Secure = cookies.Secure
	settings.Domain = cookies.Domain
	if cookies.TokenTTLHours > 0 {
		settings.TokenTTL = time.Duration(cookies.TokenTTLHours) * time.Hour
	}
	if cookies.RefreshTTLHours > 0 {
		settings.RefreshTTL = time.Duration(cookies.RefreshTTLHours) * time.Hour
	}
	return settings
}

func (ctx *context) mustCatalog() *content.Catalog {
	if ctx.catalog == nil {
		panic(fmt.Errorf("Content routers need SetupContent before SetupRouters.\n"))
	}
	return ctx.catalog
}

func (ctx *context) mustMessages() *auth.Messages {
	if ctx.messages == nil {
		panic(fmt.Errorf("Auth routers need SetupAuth before SetupRouters.\n"))
	}
	return ctx.messages
}

func (ctx *context) BuildServer(port int) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%v", port),
		Handler:           ctx.serverMultiplexer,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (ctx *context) Handler() http.Handler {
	return ctx.serverMultiplexer
}

func minutesOr(minutes int, fallback time.Duration) time.Duration {
	if minutes <= 0 {
		return fallback
	}
	return time.Duration(minutes) * time.Minute
}

func stringOr(value string, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

package integration_test

import (
	"encoding/json"
	. "github.com/oishi/portfolio/pkg/context"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"net/http/httptest"
)

var _ = Describe("Access gate", func() {

	It("redirects a private page to login with the origin", func() {
		resp, _ := getByClient(noRedirectClient(buildClient()), baseUrl+"/dashboard")
		Expect(resp.StatusCode).To(Equal(302))
		Expect(resp.Header.Get("Location")).To(Equal("/login?from=%2Fdashboard"))
	})

	It("redirects the home page without an origin", func() {
		resp, _ := getByClient(noRedirectClient(buildClient()), baseUrl+"/")
		Expect(resp.StatusCode).To(Equal(302))
		Expect(resp.Header.Get("Location")).To(Equal("/login"))
	})

	It("lets the login page and static assets through", func() {
		resp, message := get(baseUrl + "/login")
		Expect(resp.StatusCode).To(Equal(200))
		Expect(unmarshalToMap(message)).To(HaveKeyWithValue("path", "/login"))

		resp, _ = get(baseUrl + "/images/logo.png")
		Expect(resp.StatusCode).To(Equal(200))
	})

	It("lets a signed in visitor reach private pages and sends them away from login", func() {
		client := buildClient()
		resp, message := postJsonByClient(client, baseUrl+"/api/auth", map[string]string{
			"action":   "login",
			"username": "oishi",
			"password": "Secret123",
		}, nil)
		Expect(resp.StatusCode).To(Equal(200))
		Expect(string(message)).To(MatchJSON(`{"success":true}`))

		resp, message = getByClient(client, baseUrl+"/dashboard")
		Expect(resp.StatusCode).To(Equal(200))
		Expect(unmarshalToMap(message)).To(HaveKeyWithValue("service", "pages"))
		Expect(unmarshalToMap(message)).To(HaveKeyWithValue("path", "/dashboard"))

		resp, _ = getByClient(noRedirectClient(client), baseUrl+"/login?from=%2Fworks")
		Expect(resp.StatusCode).To(Equal(302))
		Expect(resp.Header.Get("Location")).To(Equal("/works"))
	})
})

var _ = Describe("Auth api", func() {

	It("reports the session of a signed in visitor and forgets it on logout", func() {
		client := buildClient()
		resp, _ := postJsonByClient(client, baseUrl+"/api/auth", map[string]string{
			"action":   "login",
			"username": "oishi",
			"password": "Secret123",
		}, nil)
		Expect(resp.StatusCode).To(Equal(200))

		resp, message := getByClient(client, baseUrl+"/api/auth")
		Expect(resp.StatusCode).To(Equal(200))
		var session map[string]interface{}
		Expect(json.Unmarshal(message, &session)).To(Succeed())
		Expect(session).To(HaveKeyWithValue("authenticated", true))
		Expect(session).To(HaveKeyWithValue("username", "oishi"))

		resp, _ = deleteByClient(client, baseUrl+"/api/auth")
		Expect(resp.StatusCode).To(Equal(200))

		resp, message = getByClient(client, baseUrl+"/api/auth")
		Expect(resp.StatusCode).To(Equal(401))
		Expect(string(message)).To(MatchJSON(`{"authenticated":false}`))
	})

	It("signs up and asks for confirmation", func() {
		resp, message := postJsonByClient(buildClient(), baseUrl+"/api/auth", map[string]string{
			"action":   "signup",
			"username": "newcomer",
			"email":    "newcomer@example.com",
			"password": "Secret123",
		}, nil)
		Expect(resp.StatusCode).To(Equal(200))
		Expect(string(message)).To(MatchJSON(`{"success":true,"userSub":"sub-1","needsConfirmation":true}`))
	})

	It("maps provider errors to messages", func() {
		resp, message := postJsonByClient(buildClient(), baseUrl+"/api/auth", map[string]string{
			"action":   "signup",
			"username": "taken",
			"email":    "taken@example.com",
			"password": "Secret123",
		}, nil)
		Expect(resp.StatusCode).To(Equal(400))
		Expect(string(message)).To(MatchJSON(`{"success":false,"error":"This username is already taken"}`))
	})

	It("serves the client config", func() {
		resp, message := get(baseUrl + "/api/auth/config")
		Expect(resp.StatusCode).To(Equal(200))
		var config map[string]map[string]map[string]interface{}
		Expect(json.Unmarshal(message, &config)).To(Succeed())
		Expect(config["Auth"]["Cognito"]).To(HaveKeyWithValue("userPoolClientId", cognitoClient))
	})
})

var _ = Describe("Content endpoints", func() {

	It("lists published articles newest first with mapped topics", func() {
		resp, message := get(baseUrl + "/api/github/articles")
		Expect(resp.StatusCode).To(Equal(200))

		var articles []map[string]interface{}
		Expect(json.Unmarshal(message, &articles)).To(Succeed())
		Expect(articles).To(HaveLen(2))
		Expect(articles[0]).To(HaveKeyWithValue("slug", "gateway"))
		Expect(articles[0]).To(HaveKeyWithValue("topics", []interface{}{"Go", "AWS"}))
		Expect(articles[1]).To(HaveKeyWithValue("slug", "idea"))
		Expect(articles[1]).To(HaveKeyWithValue("emoji", "📝"))
	})

	It("applies the limit", func() {
		_, message := get(baseUrl + "/api/github/articles?limit=1")
		var articles []map[string]interface{}
		Expect(json.Unmarshal(message, &articles)).To(Succeed())
		Expect(articles).To(HaveLen(1))
	})

	It("serves the tag mapping", func() {
		resp, message := get(baseUrl + "/api/github/tags-mapping")
		Expect(resp.StatusCode).To(Equal(200))
		Expect(string(message)).To(MatchJSON(`{"tagMapping":{"go":"Go","aws":"AWS"}}`))
	})

	It("serves works and the works listing", func() {
		resp, message := get(baseUrl + "/api/works")
		Expect(resp.StatusCode).To(Equal(200))
		var works map[string][]map[string]interface{}
		Expect(json.Unmarshal(message, &works)).To(Succeed())
		Expect(works["contents"]).To(HaveLen(2))

		resp, message = get(baseUrl + "/api/works/listing?category=Web")
		Expect(resp.StatusCode).To(Equal(200))
		var listing map[string]interface{}
		Expect(json.Unmarshal(message, &listing)).To(Succeed())
		Expect(listing).To(HaveKeyWithValue("categories", []interface{}{"All", "Web", "Tool"}))
		Expect(listing).To(HaveKeyWithValue("totalItems", float64(1)))
	})

	It("serves the blog listing", func() {
		resp, message := get(baseUrl + "/api/blog?type=idea")
		Expect(resp.StatusCode).To(Equal(200))
		var listing map[string]interface{}
		Expect(json.Unmarshal(message, &listing)).To(Succeed())
		Expect(listing).To(HaveKeyWithValue("totalItems", float64(1)))
		Expect(listing).To(HaveKeyWithValue("topics", []interface{}{"All", "AWS", "design", "Go"}))
	})
})

var _ = Describe("Content endpoints with a failing upstream", func() {

	var failing *httptest.Server

	BeforeEach(func() {
		context := NewContext(gatewayConfig(githubStub.URL+"/broken/graphql"), nil)
		context.SetupContent()
		context.SetupAuth()
		context.SetupRouters(gatewayRouters(pagesStub.URL))
		failing = httptest.NewServer(context.Handler())
	})

	AfterEach(func() {
		failing.Close()
	})

	It("answers an empty article list", func() {
		resp, message := get(failing.URL + "/api/github/articles")
		Expect(resp.StatusCode).To(Equal(200))
		Expect(string(message)).To(Equal("[]"))
	})

	It("passes tags through unchanged", func() {
		resp, message := get(failing.URL + "/api/github/tags-mapping")
		Expect(resp.StatusCode).To(Equal(200))
		Expect(string(message)).To(MatchJSON(`{"tagMapping":{}}`))
	})
})

var _ = Describe("Content endpoints without credentials", func() {

	It("answers a configuration error", func() {
		config := gatewayConfig(githubStub.URL + "/graphql")
		config.Github.Token = ""
		config.MicroCms.ApiKey = ""
		context := NewContext(config, nil)
		context.SetupContent()
		context.SetupAuth()
		context.SetupRouters(gatewayRouters(pagesStub.URL))
		bare := httptest.NewServer(context.Handler())
		defer bare.Close()

		resp, message := get(bare.URL + "/api/github/articles")
		Expect(resp.StatusCode).To(Equal(500))
		Expect(string(message)).To(MatchJSON(`{"error":"GitHub token is not configured"}`))

		resp, message = get(bare.URL + "/api/works")
		Expect(resp.StatusCode).To(Equal(500))
		Expect(string(message)).To(MatchJSON(`{"error":"microCMS API key is not configured"}`))
	})
})

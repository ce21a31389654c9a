package service

import (
	"net/http"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	viewer := JSON{
		"id":         "com.example.Viewer",
		"flag":       0,
		"suite":      12,
		"class":      "com.example.ViewerMidlet",
		"types":      []string{"text/plain", "text/html"},
		"suffixes":   []string{".txt", ".html"},
		"actions":    []string{"open", "Print"},
		"locales":    []string{"en", "es"},
		"action_map": []string{"Open", "Print", "Abrir", "Imprimir"},
	}

	a.Alternative("Register handler", func(a *biff.A) {
		resp := apiRequest("POST", "/handlers").
			WithBodyJson(viewer).Do()
		Save(resp, "Register handler", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		biff.AssertEqualJson(resp.BodyJson(), JSON{
			"id":    "com.example.Viewer",
			"suite": 12,
			"class": "com.example.ViewerMidlet",
			"flag":  0,
		})

		a.Alternative("Get handler", func(a *biff.A) {
			resp := apiRequest("GET", "/handlers/com.example.Viewer").Do()
			Save(resp, "Get handler", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"id":    "com.example.Viewer",
				"suite": 12,
				"class": "com.example.ViewerMidlet",
				"flag":  0,
			})
		})

		a.Alternative("Get handler ignores case", func(a *biff.A) {
			resp := apiRequest("GET", "/handlers/COM.EXAMPLE.VIEWER").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.BodyJsonMap()["id"], "com.example.Viewer")
		})

		a.Alternative("Find by id is case sensitive", func(a *biff.A) {
			resp := apiRequest("GET", "/handlers").
				WithQuery("key", "id").
				WithQuery("value", "com.example.viewer").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{})
		})

		a.Alternative("Get handler by prefix", func(a *biff.A) {
			resp := apiRequest("GET", "/handlers/com.example.Viewer.Plugin").
				WithQuery("mode", "prefix").Do()
			Save(resp, "Get handler by prefix", `
				Prefix mode accepts stored ids that are a prefix of the requested one.
			`)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.BodyJsonMap()["id"], "com.example.Viewer")

			a.Alternative("Exact mode does not", func(a *biff.A) {
				resp := apiRequest("GET", "/handlers/com.example.Viewer.Plugin").Do()
				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})
		})

		a.Alternative("Find by type", func(a *biff.A) {
			resp := apiRequest("GET", "/handlers").
				WithQuery("key", "types").
				WithQuery("value", "TEXT/PLAIN").Do()
			Save(resp, "Find by type", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{
				{
					"id":    "com.example.Viewer",
					"suite": 12,
					"class": "com.example.ViewerMidlet",
					"flag":  0,
				},
			})
		})

		a.Alternative("Find by action is case sensitive", func(a *biff.A) {
			resp := apiRequest("GET", "/handlers").
				WithQuery("key", "actions").
				WithQuery("value", "print").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{})
		})

		a.Alternative("Find by unknown key", func(a *biff.A) {
			resp := apiRequest("GET", "/handlers").
				WithQuery("key", "class").
				WithQuery("value", "x").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Find for suite", func(a *biff.A) {
			resp := apiRequest("GET", "/suites/12/handlers").Do()
			Save(resp, "Find for suite", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(len(resp.BodyJson().([]interface{})), 1)
		})

		a.Alternative("List values", func(a *biff.A) {
			resp := apiRequest("GET", "/values/suffixes").Do()
			Save(resp, "List values", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []string{".txt", ".html"})
		})

		a.Alternative("Get handler field", func(a *biff.A) {
			resp := apiRequest("GET", "/handlers/com.example.Viewer/fields/action_map").Do()
			Save(resp, "Get handler field", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []string{"Open", "Print", "Abrir", "Imprimir"})
		})

		a.Alternative("Query handlers", func(a *biff.A) {
			resp := apiRequest("POST", "/handlers:query").
				WithBodyJson(JSON{
					"filter": JSON{
						"suite": JSON{"$gt": 10},
					},
				}).Do()
			Save(resp, "Query handlers", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{viewer})
		})

		a.Alternative("Stats", func(a *biff.A) {
			resp := apiRequest("GET", "/stats").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJsonMap()["records"], 1)
		})

		a.Alternative("Unregister handler", func(a *biff.A) {
			resp := apiRequest("POST", "/handlers/COM.EXAMPLE.VIEWER:unregister").Do()
			Save(resp, "Unregister handler", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusNoContent)

			a.Alternative("Get unregistered handler", func(a *biff.A) {
				resp := apiRequest("GET", "/handlers/com.example.Viewer").Do()
				Save(resp, "Get handler - not found", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})

			a.Alternative("Unregister again", func(a *biff.A) {
				resp := apiRequest("POST", "/handlers/com.example.Viewer:unregister").Do()

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})
		})
	})

	a.Alternative("Register restricted handler", func(a *biff.A) {
		resp := apiRequest("POST", "/handlers").
			WithBodyJson(JSON{
				"id":       "com.example.Private",
				"flag":     2,
				"class":    "/opt/private/bin/open",
				"types":    []string{"application/x-private"},
				"accesses": []string{"com.example"},
			}).Do()
		Save(resp, "Register native handler", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		biff.AssertEqualJson(resp.BodyJson(), JSON{
			"id":    "com.example.Private",
			"suite": 0,
			"class": "",
			"flag":  2,
		})

		a.Alternative("Allowed caller", func(a *biff.A) {
			resp := apiRequest("GET", "/handlers/com.example.Private").
				WithQuery("caller", "com.example.Mail").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
		})

		a.Alternative("Other caller", func(a *biff.A) {
			resp := apiRequest("GET", "/handlers").
				WithQuery("key", "types").
				WithQuery("value", "application/x-private").
				WithQuery("caller", "org.other.App").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{})
		})
	})

	a.Alternative("Register invalid handler", func(a *biff.A) {
		resp := apiRequest("POST", "/handlers").
			WithBodyJson(JSON{
				"id":    "com.example.Broken",
				"flag":  2,
				"types": []string{"", "text/html"},
			}).Do()
		Save(resp, "Register handler - invalid", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)

		a.Alternative("Nothing was stored", func(a *biff.A) {
			resp := apiRequest("GET", "/values/id").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []string{})
		})
	})

	a.Alternative("Register malformed JSON", func(a *biff.A) {
		resp := apiRequest("POST", "/handlers").
			WithBodyString(`{"id": `).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Unknown field", func(a *biff.A) {
		resp := apiRequest("GET", "/values/colour").Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Resolve by URL", func(a *biff.A) {
		resp := apiRequest("POST", "/handlers:resolve").
			WithBodyJson(JSON{
				"url":    "http://example.com/readme.txt",
				"action": "open",
			}).Do()
		Save(resp, "Resolve handler by URL", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusNotImplemented)
	})

	a.Alternative("Execute handler", func(a *biff.A) {
		resp := apiRequest("POST", "/handlers/com.example.Viewer:execute").
			WithBodyJson(JSON{
				"url":    "http://example.com/readme.txt",
				"action": "open",
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusNotImplemented)
	})
}

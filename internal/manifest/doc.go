// Package manifest loads YAML route manifests and builds runnable sites
// from them.
//
// A manifest declares the route tree and the view containers showing it:
//
//	basePath: /docs
//	title: Docs
//	routes:
//	  - name: home
//	    path: /
//	  - name: guide
//	    path: /guide
//	    middlewares: [log]
//	    script: log("guide entered")
//	    children:
//	      - name: intro
//	        path: /guide/intro
//	      - name: secret
//	        path: /guide/secret
//	        guard: return page.query.token == "open" || "/guide/intro"
//	views:
//	  - name: main
//	    pages:
//	      - name: home
//	        title: Welcome
//	        content: "# Hello"
//	      - name: guide
//	        animation: slide-in
//	        views:
//	          - name: chapters
//	            pages:
//	              - name: intro
//	                content: Getting started.
//
// Manifests are read from a local file or from s3://bucket/key. Every Build
// returns an independent Site with its own router, document and containers.
package manifest

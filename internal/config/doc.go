// Package config provides configuration parsing for viewroute projects.
//
// The configuration is stored in viewroute.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "name": "docs-site",
//	  "manifest": "routes.yaml",
//	  "basePath": "/docs",
//	  "preview": {
//	    "host": "localhost",
//	    "port": 4000,
//	    "metrics": true
//	  },
//	  "log": {
//	    "level": "debug",
//	    "format": "text"
//	  },
//	  "s3": {
//	    "region": "eu-west-1",
//	    "anonymous": true
//	  },
//	  "scripts": {
//	    "timeout": "250ms"
//	  }
//	}
//
// The manifest may also be an S3 location such as s3://bucket/site/routes.yaml.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Preview:", cfg.PreviewURL())
package config

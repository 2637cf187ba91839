// Package config provides configuration parsing for sitekit.
//
// The configuration is stored in sitekit.json. Values are resolved in
// three layers: the JSON file (or defaults when there is none), a .env
// file next to it, then SITEKIT_* environment variables.
//
// # Configuration File Structure
//
//	{
//	  "name": "agency",
//	  "addr": ":8080",
//	  "pagesDir": "site",
//	  "redirectTo": "thank_you.html",
//	  "logLevel": "info",
//	  "logFormat": "json",
//	  "catalog": {
//	    "s3Bucket": "agency-content",
//	    "s3Key": "catalog.yaml",
//	    "s3Region": "eu-west-1"
//	  },
//	  "timing": {
//	    "submitDelay": "1500ms",
//	    "toastVisible": "5s"
//	  },
//	  "layout": {"mobileBreakpoint": 1024, "scrollOffset": 80},
//	  "session": {"ttl": "2m"}
//	}
//
// # Usage
//
//	cfg, err := config.Resolve(flagPath, ".")
//	if err != nil {
//	    errors.PrintError(err)
//	    os.Exit(1)
//	}
//
//	fmt.Println("Listening on", cfg.Addr)
package config

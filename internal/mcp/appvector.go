package mcp

// Shared parameter descriptions.
const (
	descCountry   = "Country code (default: in)"
	descLanguage  = "Language code (default: en)"
	descStartDate = "Start date in YYYY-MM-DD format (optional, defaults to 30 days ago)"
	descEndDate   = "End date in YYYY-MM-DD format (optional, defaults to today)"
	descDateFrom  = "Start date in YYYY-MM-DD format (required)"
	descDateTo    = "End date in YYYY-MM-DD format (required)"

	msgDateFromTo      = "date_from and date_to are required parameters in YYYY-MM-DD format"
	msgCountryLanguage = "country and language are required parameters"
)

func countryParam(in string) CatalogParam {
	return CatalogParam{Name: "country", Type: TypeString, Description: descCountry, In: in, Default: "in"}
}

func languageParam(in string) CatalogParam {
	return CatalogParam{Name: "language", Type: TypeString, Description: descLanguage, In: in, Default: "en"}
}

// windowParams returns the optional start_date/end_date pair that falls back
// to the rolling 30-day window. omitWhen suppresses both when set.
func windowParams(omitWhen string) []CatalogParam {
	return []CatalogParam{
		{Name: "start_date", Type: TypeString, Description: descStartDate, In: InQuery, DefaultFrom: DefaultWindowStart, OmitWhen: omitWhen},
		{Name: "end_date", Type: TypeString, Description: descEndDate, In: InQuery, DefaultFrom: DefaultWindowEnd, OmitWhen: omitWhen},
	}
}

func appParam(desc string) CatalogParam {
	return CatalogParam{Name: "app", Type: TypeString, Description: desc, Required: true, In: InQuery}
}

// appPathParam is the app identifier carried in the path of per-app sub-resources.
func appPathParam() CatalogParam {
	return CatalogParam{Name: "app", Type: TypeString, Description: "Android package name (e.g., com.app.usage.datamanager)", Required: true, In: InPath}
}

func dateRangeParams() []CatalogParam {
	return []CatalogParam{
		{Name: "date_from", Type: TypeString, Description: descDateFrom, Required: true, In: InQuery, Message: msgDateFromTo},
		{Name: "date_to", Type: TypeString, Description: descDateTo, Required: true, In: InQuery, Message: msgDateFromTo},
	}
}

func pageParams() []CatalogParam {
	return []CatalogParam{
		{Name: "page", Type: TypeInteger, Description: "Page number for pagination (optional)", In: InQuery},
		{Name: "page_size", Type: TypeInteger, Description: "Number of results per page (optional)", In: InQuery},
	}
}

func rankingOddsParam(what string) CatalogParam {
	return CatalogParam{Name: "ranking_odds", Type: TypeBoolean, Description: "If true, ranking odds are calculated in addition to " + what + " (optional)", In: InQuery}
}

func keywordRankTool(name, platform, label, path, appDesc string) CatalogTool {
	params := []CatalogParam{
		{Name: "app", Field: "app_id", Type: TypeString, Description: appDesc, Required: true, In: InQuery},
		{Name: "keywords", Type: TypeString, Description: "Comma-separated keywords to track rankings for", Required: true, In: InQuery, Trim: true,
			Message: "Keywords parameter is required and cannot be empty"},
		countryParam(InQuery),
		languageParam(InQuery),
	}
	params = append(params, windowParams("date")...)
	params = append(params, CatalogParam{Name: "date", Type: TypeString, Description: "Specific date in YYYY-MM-DD format (alternative to start_date/end_date)", In: InQuery})
	return CatalogTool{
		Name:        name,
		Description: "Get " + platform + " app keyword ranking history",
		Action:      "fetch " + label,
		Method:      "GET",
		Path:        path,
		Params:      params,
	}
}

func searchAppsTool(name, desc, action, path, keywordDesc string) CatalogTool {
	return CatalogTool{
		Name:        name,
		Description: desc,
		Action:      action,
		Method:      "POST",
		Path:        path,
		Params: []CatalogParam{
			{Name: "keyword", Type: TypeString, Description: keywordDesc, Required: true, In: InBody},
			{Name: "country", Type: TypeString, Description: "ISO country code (default: in)", In: InBody, Default: "in"},
			{Name: "language", Type: TypeString, Description: "ISO language code (default: en)", In: InBody, Default: "en"},
		},
	}
}

// AppVectorCatalog returns the AppVector tool catalog using the external route profile.
func AppVectorCatalog() []CatalogTool {
	return []CatalogTool{
		{
			Name:        "appvector_apple_metadata",
			Description: "Get Apple App Store metadata history (title, description, media, genre, developer, ratings, price, version)",
			Action:      "fetch Apple metadata",
			Method:      "GET",
			Path:        "/metadata/apple/",
			Params: append([]CatalogParam{
				appParam("Apple app ID (e.g., 284882215)"),
				{Name: "data", Type: TypeString, Description: "Type of metadata (title, description, media, genre, developer, ratings, price, version)", In: InQuery, Default: "title"},
				countryParam(InQuery),
				languageParam(InQuery),
			}, windowParams("")...),
		},
		{
			Name:        "appvector_apple_rank",
			Description: "Get Apple App Store category rank history",
			Action:      "fetch Apple category ranks",
			Method:      "GET",
			Path:        "/category/rank/apple/",
			Params: append([]CatalogParam{
				appParam("Apple app ID (e.g., 1386412985)"),
				countryParam(InQuery),
			}, windowParams("")...),
		},
		{
			Name:        "appvector_android_metadata",
			Description: "Get Google Play Store metadata history (title, description, media, install, ratings, genre, developer, price, events, version)",
			Action:      "fetch Android metadata",
			Method:      "GET",
			Path:        "/metadata/android/",
			Params: append([]CatalogParam{
				appParam("Android package name (e.g., com.spotify.music)"),
				{Name: "data", Type: TypeString, Description: "Type of metadata (title, description, media, install, ratings, genre, developer, price, events, version)", In: InQuery, Default: "title"},
				countryParam(InQuery),
				languageParam(InQuery),
			}, windowParams("")...),
		},
		{
			Name:        "appvector_android_rank",
			Description: "Get Google Play Store category rank",
			Action:      "fetch Android category ranks",
			Method:      "GET",
			Path:        "/category/rank/android/",
			Params: append([]CatalogParam{
				appParam("Android package name (e.g., com.spotify.music)"),
				countryParam(InQuery),
			}, windowParams("")...),
		},
		{
			Name:        "appvector_keyword_research",
			Description: "Generate keyword suggestions for a list of base keywords",
			Action:      "fetch keyword research",
			Method:      "POST",
			Path:        "/keyword-research/{platform}/",
			Params: []CatalogParam{
				{Name: "keywords", Type: TypeArray, Description: "List of base keywords", Required: true, In: InBody, Message: "At least one keyword is required"},
				countryParam(InBody),
				languageParam(InBody),
				{Name: "platform", Type: TypeString, Description: "Platform (android or ios, default: android)", In: InBody, Default: "android", Enum: []string{"android", "ios"}},
			},
		},
		{
			Name:        "appvector_apple_reviews",
			Description: "Get Apple app user reviews history",
			Action:      "fetch Apple reviews",
			Method:      "GET",
			Path:        "/reviews/apple/",
			Params: append([]CatalogParam{
				appParam("Apple app ID (e.g., 281796108)"),
				countryParam(InQuery),
			}, windowParams("")...),
		},
		{
			Name:        "appvector_android_reviews",
			Description: "Get Android app user reviews history",
			Action:      "fetch Android reviews",
			Method:      "GET",
			Path:        "/reviews/android/",
			Params: append([]CatalogParam{
				appParam("Android package name (e.g., com.facebook.katana)"),
				languageParam(InQuery),
			}, windowParams("")...),
		},
		keywordRankTool("appvector_apple_keyword_rank", "Apple", "Apple keyword ranks", "/ranks/apple/", "Apple app ID (e.g., 284882215)"),
		keywordRankTool("appvector_android_keyword_rank", "Android", "Android keyword ranks", "/ranks/android/", "Android package name (e.g., com.spotify.music)"),
		{
			Name:        "appvector_user_jobs",
			Description: "Retrieve all jobs created by the authenticated user, grouped into Android and iOS platforms with applied feature limits",
			Action:      "fetch user jobs",
			Method:      "GET",
			Path:        "/userjobs/",
		},
		{
			Name:        "appvector_custom_store_listings",
			Description: "Get custom store listings performance data for an Android app",
			Action:      "fetch custom store listings",
			Method:      "GET",
			Path:        "/user/apps/{app}/custom-store-listings/",
			Params:      append(append([]CatalogParam{appPathParam()}, dateRangeParams()...), pageParams()...),
		},
		{
			Name:        "appvector_csl_base_reports",
			Description: "Get custom store listing base reports with search term performance data",
			Action:      "fetch CSL base reports",
			Method:      "GET",
			Path:        "/user/apps/{app}/csl-base-reports/",
			Params: append(append([]CatalogParam{appPathParam()}, dateRangeParams()...),
				CatalogParam{Name: "search_term", Type: TypeArray, Description: "List of search terms to analyze (at least one required)", Required: true, In: InQuery},
			),
		},
		{
			Name:        "appvector_csl_search_terms",
			Description: "Get CSL search terms performance data for an Android app",
			Action:      "fetch CSL search terms",
			Method:      "GET",
			Path:        "/user/apps/{app}/csl-search-terms/",
			Params: append(append([]CatalogParam{appPathParam()}, dateRangeParams()...),
				CatalogParam{Name: "csl_id", Type: TypeArray, Description: "List of CSL IDs (at least one required)", Required: true, In: InQuery},
			),
		},
		{
			Name:        "appvector_localization_performance_data",
			Description: "Get localization performance data for an Android app",
			Action:      "fetch localization performance data",
			Method:      "GET",
			Path:        "/user/apps/{app}/localization/",
			Params:      append(append([]CatalogParam{appPathParam()}, dateRangeParams()...), pageParams()...),
		},
		{
			Name:        "appvector_keyword_volume",
			Description: "Get keyword volume and optionally ranking odds for a list of keywords",
			Action:      "fetch keyword volume",
			Method:      "POST",
			Path:        "/keywords/volume/",
			Params: []CatalogParam{
				{Name: "country", Type: TypeString, Description: "Country code (e.g., us, in, de)", Required: true, In: InBody, Message: msgCountryLanguage},
				{Name: "language", Type: TypeString, Description: "Language code (e.g., en, hi, de)", Required: true, In: InBody, Message: msgCountryLanguage},
				{Name: "keywords", Type: TypeArray, Description: `List of keywords to evaluate (e.g., ["fitness app", "workout tracker"])`, Required: true, In: InBody, Message: "At least one keyword is required"},
				{Name: "app_id", Type: TypeString, Description: "App ID to fetch associated title/description for ranking odds calculation (optional)", In: InBody},
				rankingOddsParam("volume"),
			},
		},
		{
			Name:        "appvector_keyword_ranks",
			Description: "Get keyword ranks for a specific job with optional ranking odds calculation",
			Action:      "fetch keyword ranks",
			Method:      "POST",
			Path:        "/keywords/ranks/",
			Params: []CatalogParam{
				{Name: "job_id", Type: TypeInteger, Description: "Job ID associated with the keywords (e.g., 12345)", Required: true, In: InBody},
				{Name: "country", Type: TypeString, Description: "Country code (e.g., us, in, de)", Required: true, In: InBody, Message: msgCountryLanguage},
				{Name: "language", Type: TypeString, Description: "Language code (e.g., en, hi, de)", Required: true, In: InBody, Message: msgCountryLanguage},
				{Name: "keywords", Type: TypeArray, Description: `List of keywords to evaluate (e.g., ["fitness", "workout"])`, Required: true, In: InBody, Message: "At least one keyword is required"},
				rankingOddsParam("ranks"),
			},
		},
		{
			Name:        "appvector_image_difference",
			Description: "Compare visual assets (screenshots or icons) between your app and competitor apps",
			Action:      "fetch image difference",
			Method:      "POST",
			Path:        "/image-difference/",
			Params: imageDifferenceParams(
				"app_id, competitor_app_id, country, platform, and comparison_type are all required parameters",
			),
		},
		{
			Name:        "appvector_keyword_opportunity",
			Description: "Find keyword opportunities for your app by analyzing top-ranking keywords",
			Action:      "fetch keyword opportunity",
			Method:      "GET",
			Path:        "/keyword-opportunity/",
			Params: []CatalogParam{
				{Name: "app", Type: TypeString, Description: `Your app's package name (e.g., "com.whatsapp") or iOS app ID`, Required: true, In: InQuery, Message: msgKeywordOpportunity},
				{Name: "start_date", Type: TypeString, Description: `Start date for the data range in YYYY-MM-DD format (e.g., "2025-01-01")`, Required: true, In: InQuery, Message: msgKeywordOpportunity},
				{Name: "end_date", Type: TypeString, Description: `End date for the data range in YYYY-MM-DD format (e.g., "2025-01-31")`, Required: true, In: InQuery, Message: msgKeywordOpportunity},
				{Name: "country", Type: TypeString, Description: `Two-letter country code (default: "in")`, In: InQuery, Default: "in"},
				{Name: "language", Type: TypeString, Description: `Two-letter language code (default: "en")`, In: InQuery, Default: "en"},
				{Name: "top", Type: TypeInteger, Description: "Number of top keywords to return (upstream default: 1000)", In: InQuery},
			},
		},
		searchAppsTool("appvector_search_apps_android",
			"Search for Android apps by keyword, package ID, or Play Store URL",
			"search Android apps", "/search-apps/android/",
			`Search term, app package ID (e.g., "com.whatsapp"), or full Play Store URL`),
		searchAppsTool("appvector_search_apps_apple",
			"Search for iOS apps by keyword, app ID, or App Store URL",
			"search Apple apps", "/search-apps/apple/",
			`Search term, app ID (e.g., "310633997"), or full App Store URL`),
	}
}

const msgKeywordOpportunity = "app, start_date, and end_date are required parameters"

func imageDifferenceParams(missing string) []CatalogParam {
	return []CatalogParam{
		{Name: "app_id", Type: TypeString, Description: "Your app ID - Android package name (e.g., com.whatsapp) or iOS app ID (e.g., 310633997)", Required: true, In: InBody, Message: missing},
		{Name: "competitor_app_id", Type: TypeString, Description: `Comma-separated list of competitor app IDs (e.g., "com.spotify.music,com.soundcloud.android")`, Required: true, In: InBody, Message: missing},
		{Name: "country", Type: TypeString, Description: `Two-letter country code (e.g., "us", "in", "uk")`, Required: true, In: InBody, Message: missing},
		{Name: "platform", Type: TypeString, Description: `Platform type - "android" or "ios"`, Required: true, In: InBody, Enum: []string{"android", "ios"}, Message: missing},
		{Name: "comparison_type", Type: TypeString, Description: `Type of comparison - "screenshots" or "icon"`, Required: true, In: InBody, Enum: []string{"screenshots", "icon"}, Message: missing},
	}
}

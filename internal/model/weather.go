package model

// WeatherNow is the realtime weather widget payload. Humidity, precip and
// wind speed carry their units baked in, the way the widget renders them.
type WeatherNow struct {
	Temp       string        `json:"temp"`
	Desc       string        `json:"desc"`
	Humidity   string        `json:"humidity"`
	Precip     string        `json:"precip"`
	WindDir    string        `json:"windDir"`
	WindSpeed  string        `json:"windSpeed"`
	UpdateTime string        `json:"updateTime"`
	Hourly     []WeatherHour `json:"hourly"`
}

type WeatherHour struct {
	FxTime string `json:"fxTime"`
	Temp   string `json:"temp"`
	Icon   string `json:"icon"`
	Text   string `json:"text"`
}

type WeatherDaily struct {
	UpdateTime string       `json:"updateTime"`
	Days       []WeatherDay `json:"days"`
}

type WeatherDay struct {
	Date           string `json:"date"`
	TempMax        string `json:"tempMax"`
	TempMin        string `json:"tempMin"`
	TextDay        string `json:"textDay"`
	TextNight      string `json:"textNight"`
	IconDay        string `json:"iconDay"`
	IconNight      string `json:"iconNight"`
	WindDirDay     string `json:"windDirDay"`
	WindScaleDay   string `json:"windScaleDay"`
	WindDirNight   string `json:"windDirNight"`
	WindScaleNight string `json:"windScaleNight"`
	Humidity       string `json:"humidity"`
	Precip         string `json:"precip"`
	UVIndex        string `json:"uvIndex"`
}

// QWeather upstream response shapes (only the fields the widget uses).

type QWeatherNowResponse struct {
	Code       string `json:"code"`
	UpdateTime string `json:"updateTime"`
	Now        struct {
		Temp      string `json:"temp"`
		Text      string `json:"text"`
		Humidity  string `json:"humidity"`
		Precip    string `json:"precip"`
		WindDir   string `json:"windDir"`
		WindSpeed string `json:"windSpeed"`
	} `json:"now"`
}

type QWeatherHourlyResponse struct {
	Code   string `json:"code"`
	Hourly []struct {
		FxTime string `json:"fxTime"`
		Temp   string `json:"temp"`
		Icon   string `json:"icon"`
		Text   string `json:"text"`
	} `json:"hourly"`
}

type QWeatherDailyResponse struct {
	Code       string `json:"code"`
	UpdateTime string `json:"updateTime"`
	Daily      []struct {
		FxDate         string `json:"fxDate"`
		TempMax        string `json:"tempMax"`
		TempMin        string `json:"tempMin"`
		TextDay        string `json:"textDay"`
		TextNight      string `json:"textNight"`
		IconDay        string `json:"iconDay"`
		IconNight      string `json:"iconNight"`
		WindDirDay     string `json:"windDirDay"`
		WindScaleDay   string `json:"windScaleDay"`
		WindDirNight   string `json:"windDirNight"`
		WindScaleNight string `json:"windScaleNight"`
		Humidity       string `json:"humidity"`
		Precip         string `json:"precip"`
		UVIndex        string `json:"uvIndex"`
	} `json:"daily"`
}

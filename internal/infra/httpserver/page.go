package httpserver

import (
	"html/template"

	domain "github.com/bryanwahyu/bcrisk/internal/domain/risk"
)

type selectOption struct {
	Value int
	Label string
}

type indexPage struct {
	Title           string
	Years           []int
	AgeGroupMin     int
	AgeGroupMax     int
	AgeGroupDefault int
	Races           []int
	YesNo           []selectOption
	Menarche        []string
	FirstBirth      []string
	Menopause       []string
	Densities       []selectOption
	BMIGroups       []selectOption
}

func newIndexPage() indexPage {
	page := indexPage{
		Title:           "Breast Cancer Risk Prediction",
		Years:           []int{domain.DefaultYear},
		AgeGroupMin:     domain.AgeGroupMin,
		AgeGroupMax:     domain.AgeGroupMax,
		AgeGroupDefault: domain.DefaultAgeGroup,
		YesNo:           []selectOption{{0, "No"}, {1, "Yes"}},
		Menarche:        domain.MenarcheOptions,
		FirstBirth:      domain.FirstBirthOptions,
		Menopause:       domain.MenopauseOptions,
	}
	for i := domain.RaceEthMin; i <= domain.RaceEthMax; i++ {
		page.Races = append(page.Races, i)
	}
	for d := domain.DensityFatty; d <= domain.DensityExtreme; d++ {
		page.Densities = append(page.Densities, selectOption{int(d), d.Label()})
	}
	for b := domain.BMIUnderweight; b <= domain.BMIObese; b++ {
		page.BMIGroups = append(page.BMIGroups, selectOption{int(b), b.Label()})
	}
	return page
}

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

const indexHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  body { font-family: sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; color: #222; }
  h1 { text-align: center; }
  .tagline { text-align: center; color: #555; }
  h2 { margin-top: 2rem; }
  label { display: block; margin: .6rem 0 .2rem; font-weight: 600; }
  select, input { width: 100%; padding: .4rem; box-sizing: border-box; }
  button { margin-top: 1rem; padding: .6rem 1.4rem; cursor: pointer; }
  .result { border: 1px solid #ddd; border-radius: 8px; padding: 1rem; margin-top: 1rem; }
  .low { background: #e7f7ee; }
  .high { background: #fdecea; }
  .error { background: #fdecea; border-radius: 6px; padding: .6rem; margin-top: 1rem; }
  footer { text-align: center; color: gray; margin-top: 3rem; }
</style>
</head>
<body>
<h1>🎗️ {{.Title}}</h1>
<p class="tagline">Predict breast cancer risk using clinical and demographic features.</p>

<h2>🧪 Patient Information</h2>
<form id="predict-form">
  <label for="year">Year</label>
  <select id="year" name="year">{{range .Years}}<option value="{{.}}">{{.}}</option>{{end}}</select>

  <label for="age_group_5_years">Age Group (5-year intervals): <span id="age-out">{{.AgeGroupDefault}}</span></label>
  <input type="range" id="age_group_5_years" name="age_group_5_years"
         min="{{.AgeGroupMin}}" max="{{.AgeGroupMax}}" value="{{.AgeGroupDefault}}"
         oninput="document.getElementById('age-out').textContent = this.value">

  <label for="race_eth">Race / Ethnicity</label>
  <select id="race_eth" name="race_eth">{{range .Races}}<option value="{{.}}">{{.}}</option>{{end}}</select>

  <label for="first_degree_hx">First Degree Family History</label>
  <select id="first_degree_hx" name="first_degree_hx">{{range .YesNo}}<option value="{{.Value}}">{{.Label}}</option>{{end}}</select>

  <label for="biophx">Biopsy History</label>
  <select id="biophx" name="biophx">{{range .YesNo}}<option value="{{.Value}}">{{.Label}}</option>{{end}}</select>

  <label for="age_menarche">Age at Menarche</label>
  <select id="age_menarche" name="age_menarche">{{range .Menarche}}<option>{{.}}</option>{{end}}</select>

  <label for="age_first_birth">Age at First Birth</label>
  <select id="age_first_birth" name="age_first_birth">{{range .FirstBirth}}<option>{{.}}</option>{{end}}</select>

  <label for="menopaus">Menopause Status</label>
  <select id="menopaus" name="menopaus">{{range .Menopause}}<option>{{.}}</option>{{end}}</select>

  <label for="BIRADS_breast_density">BIRADS Breast Density</label>
  <select id="BIRADS_breast_density" name="BIRADS_breast_density">{{range .Densities}}<option value="{{.Value}}">{{.Label}}</option>{{end}}</select>

  <label for="current_hrt">Current HRT</label>
  <select id="current_hrt" name="current_hrt">{{range .YesNo}}<option value="{{.Value}}">{{.Label}}</option>{{end}}</select>

  <label for="bmi_group">BMI Group</label>
  <select id="bmi_group" name="bmi_group">{{range .BMIGroups}}<option value="{{.Value}}">{{.Label}}</option>{{end}}</select>

  <button type="submit">🔍 Predict Risk</button>
</form>

<div id="result"></div>

<h2>📂 Batch Prediction (CSV)</h2>
<form id="csv-form">
  <label for="file">Upload CSV file</label>
  <input type="file" id="file" name="file" accept=".csv" required>
  <button type="submit">📊 Predict CSV</button>
</form>

<div id="csv-result"></div>

<footer>Breast Cancer ML Project 🎓</footer>

<script>
document.getElementById('predict-form').addEventListener('submit', async (e) => {
  e.preventDefault();
  const f = new FormData(e.target);
  const num = (k) => parseInt(f.get(k), 10);
  const body = {
    year: num('year'),
    age_group_5_years: num('age_group_5_years'),
    race_eth: num('race_eth'),
    first_degree_hx: num('first_degree_hx'),
    age_menarche: f.get('age_menarche'),
    age_first_birth: f.get('age_first_birth'),
    BIRADS_breast_density: num('BIRADS_breast_density'),
    current_hrt: num('current_hrt'),
    menopaus: f.get('menopaus'),
    bmi_group: num('bmi_group'),
    biophx: num('biophx')
  };

  const out = document.getElementById('result');
  out.innerHTML = '';
  const resp = await fetch('/predict', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify(body)
  });
  if (!resp.ok) {
    out.innerHTML = '<div class="error">❌ ' + (await resp.text()) + '</div>';
    return;
  }
  const data = await resp.json();
  const cls = data.prediction === 1 ? 'high' : 'low';
  const mark = data.prediction === 1 ? '⚠️' : '✅';
  out.innerHTML =
    '<div class="result ' + cls + '">' +
    '<h3>📊 Prediction Result</h3>' +
    '<p>' + mark + ' ' + data.message + '</p>' +
    '<p>Low Risk Probability: ' + data.low_risk_probability + '</p>' +
    '<p>High Risk Probability: ' + data.high_risk_probability + '</p>' +
    '</div>';
});

document.getElementById('csv-form').addEventListener('submit', async (e) => {
  e.preventDefault();
  const out = document.getElementById('csv-result');
  out.innerHTML = '';
  const resp = await fetch('/predict/csv', {method: 'POST', body: new FormData(e.target)});
  if (!resp.ok) {
    out.innerHTML = '<div class="error">❌ ' + (await resp.text()) + '</div>';
    return;
  }
  const data = await resp.json();
  out.innerHTML =
    '<div class="result">' +
    '<h3>🧠 Prediction Results</h3>' +
    '<p>' + data.rows + ' rows predicted.</p>' +
    '<p><a href="' + data.download_url + '">⬇️ Download unknown_predictions.csv</a></p>' +
    '</div>';
});
</script>
</body>
</html>
`

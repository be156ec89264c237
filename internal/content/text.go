package content

var (
	AboutMe = `Hello! I'm **Rohan Kashyap**, a passionate Computer Science Engineering student,
data enthusiast, and aspiring software engineer. I love transforming raw data into
meaningful insights, designing scalable systems, and building intelligent dashboards.

With hands-on experience in **Python, SQL, Power BI, MERN stack, and Machine Learning**,
I aim to merge creativity and analytics to craft innovative solutions.`

	Tagline = "Data Science • ML • AI"
)

// Default returns the built-in portfolio.
func Default() Portfolio {
	return Portfolio{
		Profile: Profile{
			Name:     "Rohan Kashyap",
			Initials: "RK",
			Tagline:  Tagline,
			Roles:    []string{"Data Scientist", "AI Enthusiast", "Machine Learning Engineer"},
			Metrics: []Metric{
				{Value: "2+", Label: "Years Experience"},
				{Value: "18", Label: "Projects"},
				{Value: "7", Label: "Deployed Apps"},
			},
			About:     AboutMe,
			AvatarURL: "https://avatars.githubusercontent.com/u/9919?s=200&v=4",
			VideoURL:  "https://drive.google.com/file/d/13m_2g7LvMloCjCdZk4586bFUhtRGXtb9/preview",
			ResumeURL: "#",
			Links: []Link{
				{Label: "GitHub", URL: "https://github.com"},
				{Label: "LinkedIn", URL: "https://linkedin.com"},
			},
			Year: 2025,
		},
		Skills: []Skill{
			{Name: "Python", Level: 90},
			{Name: "Machine Learning", Level: 80},
			{Name: "Data Analysis", Level: 85},
			{Name: "SQL & Databases", Level: 75},
			{Name: "Streamlit / Dash", Level: 88},
			{Name: "Power BI / Tableau", Level: 70},
			{Name: "HTML / CSS / JS", Level: 65},
		},
		Projects: []Project{
			{
				Title:       "Smart E-Learning Platform",
				Description: "Adaptive learning platform with recommendations, analytics dashboards, and content personalization.",
				Tags:        []string{"MERN", "ML", "PowerBI"},
			},
			{
				Title:       "Influencer Recommendation System",
				Description: "ML-powered scoring model to recommend influencers based on engagement & ROI.",
				Tags:        []string{"Python", "Streamlit", "SQL"},
			},
			{
				Title:       "Anomaly Detection for Sensors",
				Description: "Hybrid models for IoT anomaly detection with explainability and alerting.",
				Tags:        []string{"TimeSeries", "PyTorch", "MLOps"},
			},
			{
				Title:       "Ad Analytics Pipeline",
				Description: "Scalable ETL and reporting for daily ad metrics with partitioned data model.",
				Tags:        []string{"Airflow", "BigQuery", "Dash"},
			},
		},
		Timeline: []TimelineEntry{
			{
				Period:      "Jan 2025 – Present",
				Title:       "ML Engineer Intern — 10xConstruction.ai",
				Description: "Worked on computer vision pipelines, model optimizations, and deployment.",
			},
			{
				Period:      "Jun 2024 – Dec 2024",
				Title:       "Data Science Intern — Larsen & Toubro (L&T)",
				Description: "Built predictive models and dashboards; improved inference latency by 28%.",
			},
			{
				Period:      "2023",
				Title:       "Freelance — Data Apps",
				Description: "Delivered analytics apps and prototypes for multiple clients using Streamlit.",
			},
			{
				Period:      "2021 – 2025",
				Title:       "B.Tech CSE — Chandigarh University",
				Description: "Specialization in AI & Data Science.",
			},
		},
	}
}

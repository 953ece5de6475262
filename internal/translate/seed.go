package translate

// SeedTranslations are the common donation categories in Arabic with their
// English translations. Seeding the cache with them avoids remote calls for
// the labels that dominate the dataset.
func SeedTranslations() map[string]string {
	return map[string]string{
		"أيتام خارج الدولة": "Orphans Outside the Country",
		"سقيا الماء":        "Water Supply",
		"ادعم طفلا":         "Support a Child",
		"أمل جديد":          "New Hope",
		"كفالة يتيم":        "Orphan Sponsorship",
		"صدقة جارية":        "Ongoing Charity",
		"بناء مسجد":         "Mosque Construction",
		"زكاة المال":        "Zakat al-Mal",
		"إفطار صائم":        "Breaking Fast for Fasting Person",
		"كسوة العيد":        "Eid Clothing",
		"علاج مريض":         "Patient Treatment",
		"بناء بئر":          "Well Construction",
		"مساعدة عائلة":      "Family Assistance",
		"تعليم طالب":        "Student Education",
		"دعم مشروع":         "Project Support",
	}
}

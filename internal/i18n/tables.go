package i18n

var en = Table{
	// Header
	"appName":     "Expense Tracker",
	"appSubtitle": "Manage your finances with ease",
	"exportCSV":   "Export CSV",

	// Statistics
	"totalExpenses":     "Total Expenses",
	"totalTransactions": "Total Transactions",
	"averageExpense":    "Average Expense",
	"categories":        "Categories",

	// Form
	"addNewExpense":          "Add New Expense",
	"updateExpense":          "Update Expense",
	"description":            "Description",
	"descriptionPlaceholder": "e.g., Grocery shopping",
	"amount":                 "Amount",
	"category":               "Category",
	"date":                   "Date",
	"paymentMethod":          "Payment Method",
	"addExpense":             "Add Expense",
	"adding":                 "Adding...",
	"updating":               "Updating...",
	"cancelEdit":             "Cancel",
	"selectCategory":         "Select a category",
	"selectPaymentMethod":    "Select a payment method",

	// Quick add
	"quickAdd":            "Quick Add",
	"quickAddPlaceholder": "e.g., Lunch at the cafe for 12.50 yesterday",
	"parse":               "Parse & Add",
	"parsing":             "Parsing...",

	// Categories
	"food":           "Food & Dining",
	"transportation": "Transportation",
	"entertainment":  "Entertainment",
	"utilities":      "Utilities",
	"shopping":       "Shopping",
	"healthcare":     "Healthcare",
	"education":      "Education",
	"other":          "Other",

	// Payment methods
	"cash":          "Cash",
	"creditCard":    "Credit Card",
	"debitCard":     "Debit Card",
	"bankTransfer":  "Bank Transfer",
	"digitalWallet": "Digital Wallet",

	// Filters
	"filters":           "Filters",
	"allCategories":     "All Categories",
	"allPaymentMethods": "All Payment Methods",
	"startDate":         "Start Date",
	"endDate":           "End Date",
	"searchPlaceholder": "Search expenses...",
	"resetFilters":      "Reset Filters",

	// Expense list
	"noExpenses":            "No expenses found",
	"noExpensesDescription": "Start by adding your first expense or adjust your filters.",
	"expense":               "Expense",
	"expenses":              "Expenses",
	"sortByDate":            "Date",
	"sortByAmount":          "Amount",
	"sortByCategory":        "Category",
	"sortByDescription":     "Description",

	// Actions
	"edit":     "Edit",
	"delete":   "Delete",
	"clearAll": "Clear All Data",

	// Confirmations
	"deleteConfirm":         "Are you sure you want to delete this expense?",
	"clearAllConfirm":       "This will delete ALL expenses. This action cannot be undone. Are you sure?",
	"clearAllSecondConfirm": `Are you ABSOLUTELY sure? Type "DELETE" to confirm.`,
	"clearAllWord":          "DELETE",

	// Charts
	"categoryBreakdown":      "Category Breakdown",
	"expenseTrend":           "Expense Trend",
	"paymentMethodBreakdown": "Payment Methods",
	"monthlyExpenses":        "Monthly Expenses",
	"last6Months":            "Last 6 Months",

	// Footer
	"footerText": "Built with Go, html/template and htmx",

	// Theme
	"lightMode": "Light Mode",
	"darkMode":  "Dark Mode",

	// Currency
	"selectCurrency": "Select Currency",

	// Language
	"selectLanguage": "Select Language",
	"turkish":        "Turkish",
	"english":        "English",

	// Notifications
	"expenseAdded":      "Expense added",
	"expenseUpdated":    "Expense updated",
	"expenseDeleted":    "Expense deleted",
	"dataCleared":       "All expenses deleted",
	"settingsSaved":     "Settings saved",
	"saveFailed":        "Could not save the expense",
	"loadFailed":        "Could not load expenses",
	"parseFailed":       "Could not understand that expense",
	"parseUnavailable":  "Natural-language input is not configured",
	"expenseNotFound":   "Expense not found",
	"invalidRequest":    "Invalid request",
	"noExpensesExport":  "No expenses to export",
	"textRequired":      "Please describe the expense",
	"clearNotConfirmed": "Clearing was not confirmed",

	// Validation
	"errDescriptionRequired": "Description is required",
	"errDescriptionShort":    "Description must be at least 3 characters",
	"errDescriptionLong":     "Description must be less than 100 characters",
	"errAmountRequired":      "Amount is required",
	"errAmountNumber":        "Amount must be a valid number",
	"errAmountPositive":      "Amount must be greater than 0",
	"errAmountTooLarge":      "Amount must be less than 1,000,000",
	"errCategoryRequired":    "Category is required",
	"errCategoryInvalid":     "Category is invalid",
	"errDateRequired":        "Date is required",
	"errDateInvalid":         "Invalid date format",
	"errDateFuture":          "Date cannot be in the future",
	"errPaymentRequired":     "Payment method is required",
	"errPaymentInvalid":      "Payment method is invalid",
}

var tr = Table{
	// Header
	"appName":     "Harcama Takipçisi",
	"appSubtitle": "Finanslarınızı kolayca yönetin",
	"exportCSV":   "CSV Olarak Dışa Aktar",

	// Statistics
	"totalExpenses":     "Toplam Harcama",
	"totalTransactions": "Toplam İşlem",
	"averageExpense":    "Ortalama Harcama",
	"categories":        "Kategoriler",

	// Form
	"addNewExpense":          "Yeni Harcama Ekle",
	"updateExpense":          "Harcamayı Güncelle",
	"description":            "Açıklama",
	"descriptionPlaceholder": "örn., Market alışverişi",
	"amount":                 "Tutar",
	"category":               "Kategori",
	"date":                   "Tarih",
	"paymentMethod":          "Ödeme Yöntemi",
	"addExpense":             "Harcama Ekle",
	"adding":                 "Ekleniyor...",
	"updating":               "Güncelleniyor...",
	"cancelEdit":             "İptal",
	"selectCategory":         "Kategori seçin",
	"selectPaymentMethod":    "Ödeme yöntemi seçin",

	// Quick add
	"quickAdd":            "Hızlı Ekle",
	"quickAddPlaceholder": "örn., Dün kafede 12,50 öğle yemeği",
	"parse":               "Çözümle ve Ekle",
	"parsing":             "Çözümleniyor...",

	// Categories
	"food":           "Yemek ve İçecek",
	"transportation": "Ulaşım",
	"entertainment":  "Eğlence",
	"utilities":      "Faturalar",
	"shopping":       "Alışveriş",
	"healthcare":     "Sağlık",
	"education":      "Eğitim",
	"other":          "Diğer",

	// Payment methods
	"cash":          "Nakit",
	"creditCard":    "Kredi Kartı",
	"debitCard":     "Banka Kartı",
	"bankTransfer":  "Havale/EFT",
	"digitalWallet": "Dijital Cüzdan",

	// Filters
	"filters":           "Filtreler",
	"allCategories":     "Tüm Kategoriler",
	"allPaymentMethods": "Tüm Ödeme Yöntemleri",
	"startDate":         "Başlangıç Tarihi",
	"endDate":           "Bitiş Tarihi",
	"searchPlaceholder": "Harcama ara...",
	"resetFilters":      "Filtreleri Sıfırla",

	// Expense list
	"noExpenses":            "Harcama bulunamadı",
	"noExpensesDescription": "İlk harcamanızı ekleyerek başlayın veya filtrelerinizi ayarlayın.",
	"expense":               "Harcama",
	"expenses":              "Harcama",
	"sortByDate":            "Tarih",
	"sortByAmount":          "Tutar",
	"sortByCategory":        "Kategori",
	"sortByDescription":     "Açıklama",

	// Actions
	"edit":     "Düzenle",
	"delete":   "Sil",
	"clearAll": "Tüm Verileri Sil",

	// Confirmations
	"deleteConfirm":         "Bu harcamayı silmek istediğinizden emin misiniz?",
	"clearAllConfirm":       "Bu işlem TÜM harcamaları silecektir. Bu işlem geri alınamaz. Emin misiniz?",
	"clearAllSecondConfirm": `KESINLIKLE emin misiniz? Onaylamak için "SIL" yazın.`,
	"clearAllWord":          "SIL",

	// Charts
	"categoryBreakdown":      "Kategori Dağılımı",
	"expenseTrend":           "Harcama Trendi",
	"paymentMethodBreakdown": "Ödeme Yöntemleri",
	"monthlyExpenses":        "Aylık Harcamalar",
	"last6Months":            "Son 6 Ay",

	// Footer
	"footerText": "Go, html/template ve htmx ile geliştirilmiştir",

	// Theme
	"lightMode": "Açık Tema",
	"darkMode":  "Koyu Tema",

	// Currency
	"selectCurrency": "Para Birimi Seç",

	// Language
	"selectLanguage": "Dil Seç",
	"turkish":        "Türkçe",
	"english":        "İngilizce",

	// Notifications
	"expenseAdded":      "Harcama eklendi",
	"expenseUpdated":    "Harcama güncellendi",
	"expenseDeleted":    "Harcama silindi",
	"dataCleared":       "Tüm harcamalar silindi",
	"settingsSaved":     "Ayarlar kaydedildi",
	"saveFailed":        "Harcama kaydedilemedi",
	"loadFailed":        "Harcamalar yüklenemedi",
	"parseFailed":       "Harcama anlaşılamadı",
	"parseUnavailable":  "Doğal dil girişi yapılandırılmamış",
	"expenseNotFound":   "Harcama bulunamadı",
	"invalidRequest":    "Geçersiz istek",
	"noExpensesExport":  "Dışa aktarılacak harcama yok",
	"textRequired":      "Lütfen harcamayı açıklayın",
	"clearNotConfirmed": "Silme işlemi onaylanmadı",

	// Validation
	"errDescriptionRequired": "Açıklama gerekli",
	"errDescriptionShort":    "Açıklama en az 3 karakter olmalı",
	"errDescriptionLong":     "Açıklama 100 karakterden kısa olmalı",
	"errAmountRequired":      "Tutar gerekli",
	"errAmountNumber":        "Tutar geçerli bir sayı olmalı",
	"errAmountPositive":      "Tutar 0'dan büyük olmalı",
	"errAmountTooLarge":      "Tutar 1.000.000'dan küçük olmalı",
	"errCategoryRequired":    "Kategori gerekli",
	"errCategoryInvalid":     "Kategori geçersiz",
	"errDateRequired":        "Tarih gerekli",
	"errDateInvalid":         "Geçersiz tarih biçimi",
	"errDateFuture":          "Tarih gelecekte olamaz",
	"errPaymentRequired":     "Ödeme yöntemi gerekli",
	"errPaymentInvalid":      "Ödeme yöntemi geçersiz",
}

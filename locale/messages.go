package locale

import (
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Message IDs used across the application
const (
	AppTitle             = "AppTitle"
	ViewWelcome          = "ViewWelcome"
	ViewChat             = "ViewChat"
	ViewAnalysis         = "ViewAnalysis"
	ViewGeneration       = "ViewGeneration"
	ThemeLabel           = "ThemeLabel"
	ThemeLight           = "ThemeLight"
	ThemeDark            = "ThemeDark"
	ThemeMorocco         = "ThemeMorocco"
	LanguageLabel        = "LanguageLabel"
	SignIn               = "SignIn"
	SignOut              = "SignOut"
	SignInTitle          = "SignInTitle"
	SignInDesc           = "SignInDesc"
	EmailLabel           = "EmailLabel"
	InvalidEmail         = "InvalidEmail"
	WelcomeTitle         = "WelcomeTitle"
	WelcomeDesc          = "WelcomeDesc"
	WelcomeKnowledge     = "WelcomeKnowledge"
	WelcomeKnowledgeDesc = "WelcomeKnowledgeDesc"
	ChatPlaceholder      = "ChatPlaceholder"
	ChatSignInRequired   = "ChatSignInRequired"
	ChatSend             = "ChatSend"
	ChatFailure          = "ChatFailure"
	AnalysisTitle        = "AnalysisTitle"
	AnalysisDesc         = "AnalysisDesc"
	UploadLabel          = "UploadLabel"
	ScanLabel            = "ScanLabel"
	FileReady            = "FileReady"
	FileReadError        = "FileReadError"
	ScannedDocument      = "ScannedDocument"
	AskQuestion          = "AskQuestion"
	AnalyzeButton        = "AnalyzeButton"
	AnalysisFailure      = "AnalysisFailure"
	GenerationTitle      = "GenerationTitle"
	GenerationDesc       = "GenerationDesc"
	SelectCategory       = "SelectCategory"
	SelectTemplate       = "SelectTemplate"
	FillDetails          = "FillDetails"
	GenerateButton       = "GenerateButton"
	GeneratedDocument    = "GeneratedDocument"
	CopyButton           = "CopyButton"
	Copied               = "Copied"
	CameraError          = "CameraError"
	CaptureButton        = "CaptureButton"
	RetakeButton         = "RetakeButton"
	UseImageButton       = "UseImageButton"
	CloseButton          = "CloseButton"
	Loading              = "Loading"
	AnalysisResult       = "AnalysisResult"
	AttachButton         = "AttachButton"
	RemoveAttachment     = "RemoveAttachment"
	YouLabel             = "YouLabel"
	AssistantLabel       = "AssistantLabel"
	ErrorTitle           = "ErrorTitle"
	SettingsTitle        = "SettingsTitle"
	ProviderLabel        = "ProviderLabel"
	APIKeyLabel          = "APIKeyLabel"
	ModelLabel           = "ModelLabel"
	FontSizeLabel        = "FontSizeLabel"
	SaveButton           = "SaveButton"
	SettingsSaved        = "SettingsSaved"
	ShowWindow           = "ShowWindow"
)

type translation struct {
	id string
	fr string
	ar string
}

var translations = []translation{
	{AppTitle, "NonProfit Assistant", "مساعد غير ربحي"},
	{ViewWelcome, "Accueil", "الرئيسية"},
	{ViewChat, "Chat Juridique", "محادثة قانونية"},
	{ViewAnalysis, "Analyse de Document", "تحليل مستند"},
	{ViewGeneration, "Génération de Document", "إنشاء مستند"},
	{ThemeLabel, "Thème", "السمة"},
	{ThemeLight, "Clair", "فاتح"},
	{ThemeDark, "Sombre", "داكن"},
	{ThemeMorocco, "Maroc", "المغرب"},
	{LanguageLabel, "Langue", "اللغة"},
	{SignIn, "Se connecter", "تسجيل الدخول"},
	{SignOut, "Se déconnecter", "تسجيل الخروج"},
	{SignInTitle, "Connectez-vous pour commencer", "سجل الدخول للبدء"},
	{SignInDesc, "Entrez votre email pour sauvegarder votre historique de chat de manière sécurisée.", "أدخل بريدك الإلكتروني لحفظ سجل محادثاتك بشكل آمن."},
	{EmailLabel, "Adresse e-mail", "البريد الإلكتروني"},
	{InvalidEmail, "Adresse e-mail invalide.", "البريد الإلكتروني غير صالح."},
	{WelcomeTitle, "Bienvenue à NonProfit Assistant", "مرحبًا بك في المساعد غير الربحي"},
	{WelcomeDesc, "Votre partenaire spécialisé dans le droit marocain. Analysez, générez et discutez de questions juridiques en toute confiance.", "شريكك المتخصص في القانون المغربي. قم بتحليل وإنشاء ومناقشة المسائل القانونية بكل ثقة."},
	{WelcomeKnowledge, "Base de Connaissances", "قاعدة المعرفة"},
	{WelcomeKnowledgeDesc, "Notre IA est continuellement mise à jour avec les dernières lois, décrets et jurisprudences des sources officielles marocaines comme 9anoun.ma et justice.gov.ma pour garantir des réponses précises et pertinentes.", "يتم تحديث ذكائنا الاصطناعي باستمرار بأحدث القوانين والمراسيم والاجتهادات القضائية من مصادر مغربية رسمية مثل 9anoun.ma و justice.gov.ma لضمان إجابات دقيقة وذات صلة."},
	{ChatPlaceholder, "Posez votre question ou joignez un document...", "اطرح سؤالك أو أرفق مستندًا..."},
	{ChatSignInRequired, "Veuillez vous connecter pour commencer à chatter.", "يرجى تسجيل الدخول لبدء المحادثة."},
	{ChatSend, "Envoyer", "إرسال"},
	{ChatFailure, "Une erreur est survenue. Veuillez réessayer.", "حدث خطأ. يرجى المحاولة مرة أخرى."},
	{AnalysisTitle, "Analyse de Document", "تحليل المستندات"},
	{AnalysisDesc, "Uploadez un document (PDF, TXT, JPG, PNG) ou scannez-le pour l'analyser. Posez des questions, demandez des résumés ou extrayez des points clés.", "قم بتحميل مستند (PDF ، TXT ، JPG ، PNG) أو مسحه ضوئيًا لتحليله. اطرح أسئلة أو اطلب ملخصات أو استخرج النقاط الرئيسية."},
	{UploadLabel, "Sélectionnez un fichier", "اختر ملفًا"},
	{ScanLabel, "Scannez un document", "امسح مستندًا ضوئيًا"},
	{FileReady, "Fichier prêt pour l'analyse.", "الملف جاهز للتحليل."},
	{FileReadError, "Erreur lors de la lecture du fichier.", "خطأ في قراءة الملف."},
	{ScannedDocument, "Document scanné", "مستند ممسوح ضوئيا"},
	{AskQuestion, "Posez une question sur le document...", "اطرح سؤالاً حول المستند..."},
	{AnalyzeButton, "Analyser", "تحليل"},
	{AnalysisFailure, "Une erreur est survenue.", "حدث خطأ ما."},
	{GenerationTitle, "Génération de Documents", "إنشاء المستندات"},
	{GenerationDesc, "Choisissez un type de document, remplissez les informations et générez un écrit juridique ou administratif conforme.", "اختر نوع المستند، املأ المعلومات، وأنشئ وثيقة قانونية أو إدارية متوافقة."},
	{SelectCategory, "Choisir une catégorie...", "اختر فئة..."},
	{SelectTemplate, "Choisir un modèle...", "اختر نموذجًا..."},
	{FillDetails, "Remplissez les détails", "املأ التفاصيل"},
	{GenerateButton, "Générer le document", "إنشاء المستند"},
	{GeneratedDocument, "Document Généré", "المستند الذي تم إنشاؤه"},
	{CopyButton, "Copier", "نسخ"},
	{Copied, "Copié !", "تم النسخ!"},
	{CameraError, "Impossible d'accéder à la caméra. Veuillez vérifier les autorisations.", "تعذر الوصول إلى الكاميرا. يرجى التحقق من الأذونات."},
	{CaptureButton, "Capturer", "التقاط"},
	{RetakeButton, "Reprendre", "إعادة الالتقاط"},
	{UseImageButton, "Utiliser l'image", "استخدام الصورة"},
	{CloseButton, "Fermer", "إغلاق"},
	{Loading, "Chargement...", "جارٍ التحميل..."},
	{AnalysisResult, "Résultat de l'analyse", "نتيجة التحليل"},
	{AttachButton, "Joindre un fichier", "إرفاق ملف"},
	{RemoveAttachment, "Retirer la pièce jointe", "إزالة المرفق"},
	{YouLabel, "Vous", "أنت"},
	{AssistantLabel, "Assistant", "المساعد"},
	{ErrorTitle, "Erreur", "خطأ"},
	{SettingsTitle, "Paramètres", "الإعدادات"},
	{ProviderLabel, "Fournisseur IA", "مزود الذكاء الاصطناعي"},
	{APIKeyLabel, "Clé API", "مفتاح API"},
	{ModelLabel, "Modèle", "النموذج"},
	{FontSizeLabel, "Taille du texte", "حجم الخط"},
	{SaveButton, "Enregistrer", "حفظ"},
	{SettingsSaved, "Paramètres enregistrés.", "تم حفظ الإعدادات."},
	{ShowWindow, "Afficher la fenêtre", "إظهار النافذة"},
}

var (
	bundleOnce sync.Once
	localizers map[Locale]*i18n.Localizer
)

func loadBundle() {
	bundle := i18n.NewBundle(language.French)
	fr := make([]*i18n.Message, 0, len(translations))
	ar := make([]*i18n.Message, 0, len(translations))
	for _, tr := range translations {
		fr = append(fr, &i18n.Message{ID: tr.id, Other: tr.fr})
		ar = append(ar, &i18n.Message{ID: tr.id, Other: tr.ar})
	}
	bundle.MustAddMessages(language.French, fr...)
	bundle.MustAddMessages(language.Arabic, ar...)

	localizers = map[Locale]*i18n.Localizer{
		French: i18n.NewLocalizer(bundle, string(French)),
		Arabic: i18n.NewLocalizer(bundle, string(Arabic)),
	}
}

// T returns the text for id in locale l. Unknown ids come back verbatim
// so a missing translation shows up in the UI instead of an empty label.
func T(l Locale, id string) string {
	bundleOnce.Do(loadBundle)
	localizer, ok := localizers[l]
	if !ok {
		localizer = localizers[Default]
	}
	text, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil {
		return id
	}
	return text
}

package llm

import (
	"fmt"
	"sort"
	"strings"

	"nonprofit-assistant/locale"
)

type task int

const (
	taskChat task = iota
	taskAnalyze
	taskGenerate
)

var systemInstructions = map[locale.Locale]map[task]string{
	locale.French: {
		taskChat: "Vous êtes un assistant juridique spécialisé en droit marocain. " +
			"Appuyez-vous sur les textes officiels (Bulletin Officiel, 9anoun.ma, justice.gov.ma). " +
			"Répondez en français, de manière claire et structurée, et précisez quand un avocat doit être consulté.",
		taskAnalyze: "Vous êtes un juriste marocain qui analyse des documents. " +
			"Répondez en français à la question posée en vous fondant uniquement sur le document fourni.",
		taskGenerate: "Vous êtes un rédacteur juridique marocain. " +
			"Rédigez en français un document complet, conforme aux usages administratifs et juridiques marocains, " +
			"prêt à être imprimé. N'ajoutez aucun commentaire en dehors du document.",
	},
	locale.Arabic: {
		taskChat: "أنت مساعد قانوني متخصص في القانون المغربي. " +
			"اعتمد على النصوص الرسمية (الجريدة الرسمية، 9anoun.ma، justice.gov.ma). " +
			"أجب باللغة العربية بشكل واضح ومنظم، ووضح متى يجب استشارة محام.",
		taskAnalyze: "أنت قانوني مغربي تقوم بتحليل المستندات. " +
			"أجب باللغة العربية عن السؤال المطروح بالاعتماد فقط على المستند المقدم.",
		taskGenerate: "أنت محرر قانوني مغربي. " +
			"حرر باللغة العربية وثيقة كاملة مطابقة للأعراف الإدارية والقانونية المغربية وجاهزة للطباعة. " +
			"لا تضف أي تعليق خارج الوثيقة.",
	},
}

func systemInstruction(loc locale.Locale, t task) string {
	byTask, ok := systemInstructions[loc]
	if !ok {
		byTask = systemInstructions[locale.Default]
	}
	return byTask[t]
}

// generationPrompt lists the field values in a stable order so identical
// forms always produce identical requests
func generationPrompt(templateName string, fields map[string]string, loc locale.Locale) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	if loc == locale.Arabic {
		fmt.Fprintf(&b, "نوع الوثيقة: %s\nالمعلومات المقدمة:\n", templateName)
	} else {
		fmt.Fprintf(&b, "Type de document : %s\nInformations fournies :\n", templateName)
	}
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", k, fields[k])
	}
	return b.String()
}

func decodeAttachment(att Attachment) ([]byte, error) {
	data, err := att.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to decode attachment (%s): %w", att.MimeType, err)
	}
	return data, nil
}

func isImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

func isTextLike(mimeType string) bool {
	return strings.HasPrefix(mimeType, "text/") ||
		strings.Contains(mimeType, "json") ||
		strings.Contains(mimeType, "xml")
}

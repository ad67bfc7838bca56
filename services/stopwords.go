package services

import "strings"

// englishStopWords is the fixed stop-word list applied to both ingested text
// and queries. Tokens are compared lowercase; original casing is preserved
// for the tokens that remain.
var englishStopWords = map[string]bool{}

func init() {
	words := []string{
		"a", "about", "above", "across", "after", "afterwards", "again", "against",
		"all", "almost", "alone", "along", "already", "also", "although", "always",
		"am", "among", "amongst", "amount", "an", "and", "another", "any", "anyhow",
		"anyone", "anything", "anyway", "anywhere", "are", "around", "as", "at",
		"back", "be", "became", "because", "become", "becomes", "becoming", "been",
		"before", "beforehand", "behind", "being", "below", "beside", "besides",
		"between", "beyond", "both", "bottom", "but", "by", "call", "can", "cannot",
		"could", "did", "do", "does", "doing", "done", "down", "due", "during",
		"each", "either", "else", "elsewhere", "empty", "enough", "even", "ever",
		"every", "everyone", "everything", "everywhere", "except", "few", "first",
		"for", "former", "formerly", "from", "front", "full", "further", "get",
		"give", "go", "had", "has", "have", "he", "hence", "her", "here",
		"hereafter", "hereby", "herein", "hereupon", "hers", "herself", "him",
		"himself", "his", "how", "however", "i", "if", "in", "indeed", "into",
		"is", "it", "its", "itself", "just", "last", "latter", "latterly", "least",
		"less", "made", "many", "may", "me", "meanwhile", "might", "mine", "more",
		"moreover", "most", "mostly", "move", "much", "must", "my", "myself",
		"name", "namely", "neither", "never", "nevertheless", "next", "no",
		"nobody", "none", "nor", "not", "nothing", "now", "nowhere", "of", "off",
		"often", "on", "once", "one", "only", "onto", "or", "other", "others",
		"otherwise", "our", "ours", "ourselves", "out", "over", "own", "part",
		"per", "perhaps", "please", "put", "rather", "re", "really", "regarding",
		"same", "say", "see", "seem", "seemed", "seeming", "seems", "serious",
		"several", "she", "should", "show", "side", "since", "so", "some",
		"somehow", "someone", "something", "sometime", "sometimes", "somewhere",
		"still", "such", "take", "than", "that", "the", "their", "theirs", "them",
		"themselves", "then", "thence", "there", "thereafter", "thereby",
		"therefore", "therein", "thereupon", "these", "they", "this", "those",
		"though", "through", "throughout", "thru", "thus", "to", "together", "too",
		"top", "toward", "towards", "under", "unless", "until", "up", "upon",
		"us", "used", "using", "various", "very", "via", "was", "we", "well",
		"were", "what", "whatever", "when", "whence", "whenever", "where",
		"whereafter", "whereas", "whereby", "wherein", "whereupon", "wherever",
		"whether", "which", "while", "whither", "who", "whoever", "whole", "whom",
		"whose", "why", "will", "with", "within", "without", "would", "yet", "you",
		"your", "yours", "yourself", "yourselves",
	}
	for _, w := range words {
		englishStopWords[w] = true
	}
}

// RemoveStopWords drops English stop words from the text. Remaining tokens
// are rejoined with single spaces, so surrounding whitespace is collapsed.
func RemoveStopWords(text string) string {
	words := strings.Fields(text)
	kept := make([]string, 0, len(words))
	for _, word := range words {
		if !englishStopWords[strings.ToLower(word)] {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}
